package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one recorded expense owned by a single user.
type Expense struct {
	// ID is assigned by the remote store; empty until the first insert succeeds.
	ID          string
	Amount      decimal.Decimal
	Description string
	Category    Category
	// Date is stamped at creation and carried through every update.
	Date      time.Time
	UserID    string
	CreatedAt time.Time
}

// Draft is the editable form input for creating or updating an expense.
type Draft struct {
	Amount      string
	Description string
	Category    string
}

// Fields are the validated, user-editable parts of an expense.
type Fields struct {
	Amount      decimal.Decimal
	Description string
	Category    Category
}

// DraftOf fills a Draft from an existing expense, e.g. to pre-populate an
// edit form.
func DraftOf(e Expense) Draft {
	return Draft{
		Amount:      e.Amount.String(),
		Description: e.Description,
		Category:    string(e.Category),
	}
}

// Validate checks every field of the draft and returns the normalized
// values. All failures are joined; each is a *ValidationError.
func (d Draft) Validate() (Fields, error) {
	var (
		f    Fields
		errs []error
	)

	amount, err := ParseAmount(d.Amount)
	if err != nil {
		errs = append(errs, invalid(FieldAmount, err.Error()))
	}
	f.Amount = amount

	f.Description = strings.TrimSpace(d.Description)
	if f.Description == "" {
		errs = append(errs, invalid(FieldDescription, "must not be empty"))
	}

	category, err := ParseCategory(d.Category)
	if err != nil {
		errs = append(errs, invalid(FieldCategory, err.Error()))
	}
	f.Category = category

	if len(errs) > 0 {
		return Fields{}, errors.Join(errs...)
	}
	return f, nil
}

// Apply returns a copy of e with the user-editable fields replaced by f.
// Identity, ownership and timestamps are kept.
func (e Expense) Apply(f Fields) Expense {
	e.Amount = f.Amount
	e.Description = f.Description
	e.Category = f.Category
	return e
}
