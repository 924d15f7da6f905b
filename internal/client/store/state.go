package store

import (
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/client/asyncop"
	"github.com/dmitrijs2005/expensetracker/internal/client/derived"
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/shopspring/decimal"
)

// state is replaced as a whole on every transition; handlers never mutate
// the value they receive.
type state struct {
	userID    string
	isPremium bool
	expenses  []models.Expense
	editing   *models.Expense
	ops       asyncop.Tracker
}

func (s state) clone() state {
	c := s
	c.expenses = append([]models.Expense(nil), s.expenses...)
	if s.editing != nil {
		e := *s.editing
		c.editing = &e
	}
	c.ops = s.ops.Clone()
	return c
}

func (s state) indexOf(id string) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Snapshot is a read-only view of the store at one point in time.
type Snapshot struct {
	UserID    string
	IsPremium bool
	Expenses  []models.Expense
	Editing   *models.Expense
	Ops       map[asyncop.Op]asyncop.Status
	// Error is the message of the most recent failure not yet cleared.
	Error   string
	Derived derived.Values
}

func (s state) snapshot() Snapshot {
	c := s.clone()
	snap := Snapshot{
		UserID:    c.userID,
		IsPremium: c.isPremium,
		Expenses:  c.expenses,
		Editing:   c.editing,
		Ops:       c.ops.Statuses(),
		Derived:   derived.Summary(c.expenses, c.isPremium),
	}
	if _, msg, ok := c.ops.LastError(); ok {
		snap.Error = msg
	}
	if snap.Expenses == nil {
		snap.Expenses = []models.Expense{}
	}
	return snap
}

// Authenticated reports whether a user is signed in.
func (s Snapshot) Authenticated() bool {
	return s.UserID != ""
}

func (s Snapshot) Status(op asyncop.Op) asyncop.Status {
	if st, ok := s.Ops[op]; ok {
		return st
	}
	return asyncop.Status{Phase: asyncop.Idle}
}

// Pending reports whether any operation is in flight.
func (s Snapshot) Pending() bool {
	for _, st := range s.Ops {
		if st.Phase == asyncop.Pending {
			return true
		}
	}
	return false
}

// ExportRow is one flat record of the export view.
type ExportRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    models.Category
}

// ExportColumns is the field order of ExportRow.
var ExportColumns = []string{"Date", "Description", "Amount", "Category"}

// ExportRows returns the collection in its current order as flat rows.
func (s Snapshot) ExportRows() []ExportRow {
	rows := make([]ExportRow, len(s.Expenses))
	for i, e := range s.Expenses {
		rows[i] = ExportRow{Date: e.Date, Description: e.Description, Amount: e.Amount, Category: e.Category}
	}
	return rows
}
