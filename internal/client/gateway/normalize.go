package gateway

import (
	"fmt"
	"sort"

	"github.com/dmitrijs2005/expensetracker/internal/client/models"
)

// Normalize decodes raw documents and orders them by date, newest first.
// Documents that cannot be decoded are left out and reported; equal dates
// keep their original relative order.
func Normalize(docs []models.Document) ([]models.Expense, []error) {
	out := make([]models.Expense, 0, len(docs))
	var errs []error

	for i, doc := range docs {
		e, err := models.FromDocument(doc)
		if err != nil {
			id, _ := doc[models.FieldID].(string)
			errs = append(errs, fmt.Errorf("document %d (id %q): %w", i, id, err))
			continue
		}
		out = append(out, e)
	}

	SortByDateDesc(out)
	return out, errs
}

// SortByDateDesc sorts in place, newest first, keeping ties stable.
func SortByDateDesc(expenses []models.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
}
