// Package documents persists schemaless documents grouped in collections.
package documents

import (
	"context"

	"github.com/dmitrijs2005/expensetracker/internal/server/models"
)

// Repository stores documents. Get, Update and Delete of an unknown id
// return common.ErrNotFound.
type Repository interface {
	Insert(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, collection, userID string) ([]*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, collection, id string) error
}
