// Package gateway is the boundary between the expense store and the remote
// document store. Implementations are stateless request/response adapters;
// every failure they return is a *Error.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/common"
)

// Gateway performs record operations against the remote store.
type Gateway interface {
	List(ctx context.Context, userID string) ([]models.Document, error)
	Insert(ctx context.Context, doc models.Document) (string, error)
	Update(ctx context.Context, id string, doc models.Document) error
	Delete(ctx context.Context, id string) error
}

// Account is an authenticated remote identity.
type Account struct {
	UserID    string
	Username  string
	Token     string
	IsPremium bool
}

// Authenticator manages remote accounts.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (Account, error)
	Login(ctx context.Context, username, password string) (Account, error)
	SetPremium(ctx context.Context, isPremium bool) (Account, error)
}

// Presigner hands out upload URLs for export files.
type Presigner interface {
	PresignExport(ctx context.Context, fileName string) (url string, err error)
}

// Failure kinds. Every *Error matches exactly one of them via errors.Is.
var (
	ErrUnavailable      = errors.New("remote store unavailable")
	ErrUnauthorized     = common.ErrUnauthorized
	ErrPermissionDenied = common.ErrPermissionDenied
	ErrNotFound         = common.ErrNotFound
	ErrAlreadyExists    = common.ErrAlreadyExists
	ErrInvalidArgument  = common.ErrInvalidArgument
	ErrInternal         = common.ErrInternal
)

// Error is a failed remote operation.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("gateway %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("gateway %s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
