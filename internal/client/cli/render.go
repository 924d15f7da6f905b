package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/expensetracker/internal/client/asyncop"
	"github.com/dmitrijs2005/expensetracker/internal/client/export"
	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/client/session"
	"github.com/dmitrijs2005/expensetracker/internal/client/store"
)

const dateLayout = "2006-01-02"

type theme int

const (
	themeLight theme = iota
	themeDark
)

func (t theme) String() string {
	if t == themeDark {
		return "dark"
	}
	return "light"
}

// ANSI white on black, then reset.
const (
	darkStart = "\x1b[97;40m"
	darkEnd   = "\x1b[0m"
)

// renderExpenses prints the collection in store order followed by a total
// row and any outstanding failures.
func renderExpenses(w io.Writer, snap store.Snapshot, t theme) {
	if len(snap.Expenses) == 0 {
		fmt.Fprintln(w, "No expenses yet.")
	} else {
		var buf bytes.Buffer
		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tDESCRIPTION\tAMOUNT\t")
		for _, e := range snap.Expenses {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
				e.ID, e.Date.UTC().Format(dateLayout), e.Category, e.Description, models.FormatAmount(e.Amount))
		}
		fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\t\n", models.FormatAmount(snap.Derived.Total))
		_ = tw.Flush()
		writeThemed(w, &buf, t)
	}
	printFailures(w, snap)
}

func writeThemed(w io.Writer, table *bytes.Buffer, t theme) {
	if t != themeDark {
		_, _ = table.WriteTo(w)
		return
	}
	sc := bufio.NewScanner(table)
	for sc.Scan() {
		fmt.Fprintf(w, "%s%s%s\n", darkStart, sc.Text(), darkEnd)
	}
}

// printFailures prints the message of every failed operation class and
// reports whether there was one.
func printFailures(w io.Writer, snap store.Snapshot) bool {
	failed := false
	for _, op := range asyncop.Ops {
		if st := snap.Status(op); st.Phase == asyncop.Failed {
			fmt.Fprintln(w, st.Error)
			failed = true
		}
	}
	return failed
}

func renderStatus(w io.Writer, snap store.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, op := range asyncop.Ops {
		st := snap.Status(op)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", op, st.Phase, st.Error)
	}
	_ = tw.Flush()
	if snap.Error != "" {
		fmt.Fprintf(w, "Last error: %s (type 'clear' to dismiss)\n", snap.Error)
	}
}

// describe turns an intent error into a line for the user.
func describe(err error) string {
	var opErr *store.OperationError
	switch {
	case errors.Is(err, asyncop.ErrStaleResult):
		return "a newer request superseded this one"
	case errors.As(err, &opErr):
		return opErr.Message
	case errors.Is(err, models.ErrValidation):
		return err.Error()
	case errors.Is(err, export.ErrPremiumRequired):
		return "export is a premium feature"
	case errors.Is(err, session.ErrNotLoggedIn):
		return "not logged in"
	case errors.Is(err, gateway.ErrUnauthorized):
		return "invalid username or password"
	case errors.Is(err, gateway.ErrAlreadyExists):
		return "username is already taken"
	case errors.Is(err, gateway.ErrUnavailable):
		return "server unavailable, please try again later"
	}
	return err.Error()
}
