package store

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/expensetracker/internal/client/asyncop"
)

var (
	ErrNotEditing     = errors.New("no expense is being edited")
	ErrNoIdentity     = errors.New("no signed-in user")
	ErrUnknownExpense = errors.New("expense not in collection")
)

// User-facing failure messages per operation class.
var failureMessages = map[asyncop.Op]string{
	asyncop.OpFetch:  "Failed to fetch expenses. Please try again later.",
	asyncop.OpAdd:    "Failed to add expense. Please try again later.",
	asyncop.OpUpdate: "Failed to update expense. Please try again later.",
	asyncop.OpDelete: "Failed to delete expense. Please try again later.",
}

// FailureMessage returns the message shown when op fails.
func FailureMessage(op asyncop.Op) string {
	return failureMessages[op]
}

// OperationError is returned by an intent whose gateway call failed. Message
// is what the snapshot exposes; Err is the gateway cause.
type OperationError struct {
	Op      asyncop.Op
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
