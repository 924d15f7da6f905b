// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/expensetracker/internal/server/models"
)

// Repository stores users. Lookups of unknown users return
// common.ErrNotFound; Create with a taken username returns
// common.ErrAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetPremium(ctx context.Context, id string, isPremium bool) error
}
