package store

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/client/asyncop"
	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/client/session"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
)

// SetIdentity switches the store to id. A nil id signs out: the collection
// and editing slot are cleared and in-flight results become stale. A new
// user gets the same reset followed by a fetch; the same user only has the
// premium flag refreshed.
func (s *Store) SetIdentity(ctx context.Context, id *session.Identity) error {
	s.mu.Lock()
	sameUser := id != nil && id.UserID == s.st.userID
	s.mu.Unlock()

	if err := s.dispatch(identityChanged{identity: id}); err != nil {
		return err
	}
	if id == nil || sameUser {
		return nil
	}
	return s.List(ctx)
}

// List replaces the collection with the user's records from the gateway.
func (s *Store) List(ctx context.Context) error {
	var (
		tok    asyncop.Token
		userID string
	)
	err := s.mutate(func(st *state) error {
		if st.userID == "" {
			return ErrNoIdentity
		}
		userID = st.userID
		tok = st.ops.Begin(asyncop.OpFetch)
		return nil
	})
	if err != nil {
		return err
	}

	docs, err := s.gw.List(ctx, userID)
	if err != nil {
		s.logFailure(ctx, string(asyncop.OpFetch), err, logging.FieldUserID, userID)
		return s.dispatch(fetchApplied{token: tok, err: err})
	}

	decoded, bad := gateway.Normalize(docs)
	for _, e := range bad {
		s.logger.Warn(ctx, "skipping undecodable document", logging.FieldUserID, userID, logging.FieldError, e)
	}
	expenses := decoded[:0]
	for _, e := range decoded {
		if e.UserID != userID {
			s.logger.Warn(ctx, "skipping document of another user", logging.FieldUserID, userID, logging.FieldExpenseID, e.ID)
			continue
		}
		expenses = append(expenses, e)
	}

	err = s.dispatch(fetchApplied{token: tok, expenses: expenses})
	s.logResult(ctx, asyncop.OpFetch, tok, err, logging.FieldCount, len(expenses))
	return err
}

// Create validates d and inserts a new expense owned by the current user,
// dated now. On success the stored record is returned.
func (s *Store) Create(ctx context.Context, d models.Draft) (models.Expense, error) {
	fields, err := d.Validate()
	if err != nil {
		return models.Expense{}, err
	}

	var (
		tok asyncop.Token
		exp models.Expense
	)
	err = s.mutate(func(st *state) error {
		if st.userID == "" {
			return ErrNoIdentity
		}
		// Millisecond precision, as written on the wire.
		now := s.now().UTC().Truncate(time.Millisecond)
		exp = models.Expense{Date: now, CreatedAt: now, UserID: st.userID}.Apply(fields)
		tok = st.ops.Begin(asyncop.OpAdd)
		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}

	id, err := s.gw.Insert(ctx, exp.ToDocument())
	if err != nil {
		s.logFailure(ctx, string(asyncop.OpAdd), err)
		return models.Expense{}, s.dispatch(addApplied{token: tok, err: err})
	}
	exp.ID = id

	err = s.dispatch(addApplied{token: tok, expense: exp})
	s.logResult(ctx, asyncop.OpAdd, tok, err, logging.FieldExpenseID, id)
	if err != nil {
		return models.Expense{}, err
	}
	return exp, nil
}

// Update applies d to the expense in the editing slot. Date, owner and
// creation time are kept from the slot.
func (s *Store) Update(ctx context.Context, d models.Draft) (models.Expense, error) {
	var (
		tok     asyncop.Token
		updated models.Expense
		fields  models.Fields
	)
	err := s.mutate(func(st *state) error {
		if st.editing == nil {
			return ErrNotEditing
		}
		var err error
		if fields, err = d.Validate(); err != nil {
			return err
		}
		updated = st.editing.Apply(fields)
		tok = st.ops.Begin(asyncop.OpUpdate)
		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}

	if err := s.gw.Update(ctx, updated.ID, updated.ToDocument()); err != nil {
		s.logFailure(ctx, string(asyncop.OpUpdate), err, logging.FieldExpenseID, updated.ID)
		return models.Expense{}, s.dispatch(updateApplied{token: tok, err: err})
	}

	err = s.dispatch(updateApplied{token: tok, expense: updated})
	s.logResult(ctx, asyncop.OpUpdate, tok, err, logging.FieldExpenseID, updated.ID)
	if err != nil {
		return models.Expense{}, err
	}
	return updated, nil
}

// Delete removes the expense with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	var tok asyncop.Token
	err := s.mutate(func(st *state) error {
		if st.userID == "" {
			return ErrNoIdentity
		}
		tok = st.ops.Begin(asyncop.OpDelete)
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.gw.Delete(ctx, id); err != nil {
		s.logFailure(ctx, string(asyncop.OpDelete), err, logging.FieldExpenseID, id)
		return s.dispatch(deleteApplied{token: tok, id: id, err: err})
	}

	err = s.dispatch(deleteApplied{token: tok, id: id})
	s.logResult(ctx, asyncop.OpDelete, tok, err, logging.FieldExpenseID, id)
	return err
}

// BeginEdit puts the expense with id into the editing slot.
func (s *Store) BeginEdit(id string) error {
	return s.dispatch(editBegan{id: id})
}

// CancelEdit empties the editing slot.
func (s *Store) CancelEdit() {
	_ = s.dispatch(editCancelled{})
}

// ClearError clears the error of the most recently failed operation.
func (s *Store) ClearError() {
	_ = s.dispatch(errorCleared{})
}

func (s *Store) logResult(ctx context.Context, op asyncop.Op, tok asyncop.Token, err error, kv ...any) {
	args := append([]any{logging.FieldOperation, string(op), logging.FieldToken, tok.String()}, kv...)
	if errors.Is(err, asyncop.ErrStaleResult) {
		s.logger.Debug(ctx, "stale result discarded", args...)
		return
	}
	s.logger.Debug(ctx, "result applied", args...)
}
