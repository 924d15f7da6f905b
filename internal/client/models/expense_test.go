package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_Validate_OK(t *testing.T) {
	f, err := Draft{Amount: "50", Description: "  coffee ", Category: "food"}.Validate()
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(50).Equal(f.Amount))
	assert.Equal(t, "coffee", f.Description)
	assert.Equal(t, CategoryFood, f.Category)
}

func TestDraft_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		draft  Draft
		fields []string
	}{
		{name: "bad amount", draft: Draft{Amount: "x", Description: "a", Category: "Food"}, fields: []string{FieldAmount}},
		{name: "negative amount", draft: Draft{Amount: "-5", Description: "a", Category: "Food"}, fields: []string{FieldAmount}},
		{name: "blank description", draft: Draft{Amount: "1", Description: "   ", Category: "Food"}, fields: []string{FieldDescription}},
		{name: "unknown category", draft: Draft{Amount: "1", Description: "a", Category: "Pets"}, fields: []string{FieldCategory}},
		{name: "everything wrong", draft: Draft{}, fields: []string{FieldAmount, FieldDescription, FieldCategory}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.fields[0], ve.Field)

			for _, f := range tt.fields {
				assert.Contains(t, err.Error(), "invalid "+f)
			}
		})
	}
}

func TestExpense_Apply_KeepsIdentityAndDates(t *testing.T) {
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	orig := Expense{
		ID: "e1", Amount: decimal.NewFromInt(5), Description: "old", Category: CategoryFood,
		Date: date, UserID: "u1", CreatedAt: date,
	}

	got := orig.Apply(Fields{Amount: decimal.NewFromInt(9), Description: "new", Category: CategoryOther})

	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, date, got.Date)
	assert.Equal(t, date, got.CreatedAt)
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, CategoryOther, got.Category)
	assert.Equal(t, "old", orig.Description, "receiver must not change")
}

func TestDraftOf(t *testing.T) {
	d := DraftOf(Expense{Amount: decimal.RequireFromString("12.5"), Description: "x", Category: CategoryHousing})
	assert.Equal(t, Draft{Amount: "12.5", Description: "x", Category: "Housing"}, d)
}

func TestCategories(t *testing.T) {
	cs := Categories()
	require.Len(t, cs, 10)
	assert.Equal(t, CategoryFood, cs[0])
	assert.Equal(t, CategoryOther, cs[9])

	cs[0] = "mutated"
	assert.Equal(t, CategoryFood, Categories()[0])

	assert.True(t, CategorySalary.Valid())
	assert.False(t, Category("food").Valid())
}
