package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/client/store"
)

// List refetches the collection and prints it. On failure the previous
// collection is printed along with the error.
func (a *App) List(ctx context.Context) error {
	err := a.store.List(ctx)
	snap := a.store.Snapshot()
	renderExpenses(a.out, snap, a.themeFor(snap))
	return err
}

func categoryPrompt() string {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, string(c))
	}
	return "Category (" + strings.Join(names, ", ") + ")"
}

func (a *App) readDraft(current models.Draft) (models.Draft, error) {
	var (
		d   models.Draft
		err error
	)
	if d.Amount, err = GetWithDefault(a.reader, "Amount", current.Amount, a.out); err != nil {
		return d, err
	}
	if d.Description, err = GetWithDefault(a.reader, "Description", current.Description, a.out); err != nil {
		return d, err
	}
	if d.Category, err = GetWithDefault(a.reader, categoryPrompt(), current.Category, a.out); err != nil {
		return d, err
	}
	return d, nil
}

// Add prompts for a new expense and creates it. While an expense is being
// edited the form goes to Update instead.
func (a *App) Add(ctx context.Context) error {
	if a.store.Snapshot().Editing != nil {
		return a.Update(ctx)
	}
	d, err := a.readDraft(models.Draft{Category: string(models.CategoryOther)})
	if err != nil {
		return err
	}
	exp, err := a.store.Create(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s\n", exp.ID)
	return nil
}

// Edit puts the expense into the editing slot.
func (a *App) Edit(_ context.Context, id string) error {
	if err := a.store.BeginEdit(id); err != nil {
		return err
	}
	e := a.store.Snapshot().Editing
	if e == nil || e.ID != id {
		return store.ErrNotEditing
	}
	fmt.Fprintf(a.out, "Editing %s: %s %s %s\n", e.ID, models.FormatAmount(e.Amount), e.Category, e.Description)
	fmt.Fprintln(a.out, "Use 'update' to change it or 'cancel' to stop editing.")
	return nil
}

// Update prompts for new values of the edited expense. Empty answers keep
// the current value.
func (a *App) Update(ctx context.Context) error {
	e := a.store.Snapshot().Editing
	if e == nil {
		return store.ErrNotEditing
	}
	d, err := a.readDraft(models.DraftOf(*e))
	if err != nil {
		return err
	}
	exp, err := a.store.Update(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", exp.ID)
	return nil
}

func (a *App) Cancel(_ context.Context) error {
	a.store.CancelEdit()
	fmt.Fprintln(a.out, "Editing cancelled")
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

// Total prints the count, the total and whether premium can be activated.
func (a *App) Total(_ context.Context) error {
	snap := a.store.Snapshot()
	fmt.Fprintf(a.out, "Expenses: %d\nTotal: %s\n", snap.Derived.Count, models.FormatAmount(snap.Derived.Total))
	if snap.Derived.PremiumEligible {
		fmt.Fprintln(a.out, "You qualify for premium. Type 'premium' to activate it.")
	}
	return nil
}

// Status prints the phase of every operation class.
func (a *App) Status(_ context.Context) error {
	renderStatus(a.out, a.store.Snapshot())
	return nil
}

// Clear dismisses the most recent failure.
func (a *App) Clear(_ context.Context) error {
	a.store.ClearError()
	fmt.Fprintln(a.out, "Error cleared")
	return nil
}
