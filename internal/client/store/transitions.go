package store

import (
	"fmt"

	"github.com/dmitrijs2005/expensetracker/internal/client/asyncop"
	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/client/session"
)

// result is the closed set of transitions the store applies to its state.
type result interface {
	isResult()
}

type fetchApplied struct {
	token    asyncop.Token
	expenses []models.Expense
	err      error
}

type addApplied struct {
	token   asyncop.Token
	expense models.Expense
	err     error
}

type updateApplied struct {
	token   asyncop.Token
	expense models.Expense
	err     error
}

type deleteApplied struct {
	token asyncop.Token
	id    string
	err   error
}

type editBegan struct {
	id string
}

type editCancelled struct{}

type errorCleared struct{}

type identityChanged struct {
	identity *session.Identity
}

func (fetchApplied) isResult()    {}
func (addApplied) isResult()      {}
func (updateApplied) isResult()   {}
func (deleteApplied) isResult()   {}
func (editBegan) isResult()       {}
func (editCancelled) isResult()   {}
func (errorCleared) isResult()    {}
func (identityChanged) isResult() {}

// reducer applies results. Each handler returns the next state, whether it
// differs from the input, and the error the originating intent reports.
type reducer struct {
	resort bool
}

func (r reducer) reduce(st state, res result) (state, bool, error) {
	switch v := res.(type) {
	case fetchApplied:
		return r.applyFetch(st, v)
	case addApplied:
		return r.applyAdd(st, v)
	case updateApplied:
		return r.applyUpdate(st, v)
	case deleteApplied:
		return r.applyDelete(st, v)
	case editBegan:
		return r.beginEdit(st, v)
	case editCancelled:
		return r.cancelEdit(st)
	case errorCleared:
		return r.clearError(st)
	case identityChanged:
		return r.changeIdentity(st, v)
	default:
		panic(fmt.Sprintf("store: unhandled result %T", res))
	}
}

// failed records a gateway failure for op when tok is still current.
func failed(st state, op asyncop.Op, tok asyncop.Token, cause error) (state, bool, error) {
	opErr := &OperationError{Op: op, Message: FailureMessage(op), Err: cause}
	if !st.ops.Latest(op, tok) {
		return st, false, fmt.Errorf("%w: %w", asyncop.ErrStaleResult, opErr)
	}
	next := st.clone()
	next.ops.Fail(op, tok, opErr.Message)
	return next, true, opErr
}

func (r reducer) applyFetch(st state, v fetchApplied) (state, bool, error) {
	if v.err != nil {
		return failed(st, asyncop.OpFetch, v.token, v.err)
	}
	if !st.ops.Latest(asyncop.OpFetch, v.token) {
		return st, false, asyncop.ErrStaleResult
	}

	next := st.clone()
	next.ops.Succeed(asyncop.OpFetch, v.token)
	next.expenses = append([]models.Expense(nil), v.expenses...)
	gateway.SortByDateDesc(next.expenses)
	return next, true, nil
}

// Adds and deletes of distinct records commute, so a superseded success from
// the current session is still merged; only the status stays with the
// latest call. A fetch that completed while the insert was in flight may
// already hold the record, in which case it is replaced where it sits.
func (r reducer) applyAdd(st state, v addApplied) (state, bool, error) {
	if v.err != nil {
		return failed(st, asyncop.OpAdd, v.token, v.err)
	}
	if v.token.Epoch != st.ops.Epoch() {
		return st, false, asyncop.ErrStaleResult
	}

	next := st.clone()
	next.ops.Succeed(asyncop.OpAdd, v.token)
	if i := next.indexOf(v.expense.ID); i >= 0 {
		next.expenses[i] = v.expense
	} else {
		next.expenses = append([]models.Expense{v.expense}, next.expenses...)
	}
	if r.resort {
		gateway.SortByDateDesc(next.expenses)
	}
	return next, true, nil
}

func (r reducer) applyUpdate(st state, v updateApplied) (state, bool, error) {
	if v.err != nil {
		return failed(st, asyncop.OpUpdate, v.token, v.err)
	}
	if !st.ops.Latest(asyncop.OpUpdate, v.token) {
		return st, false, asyncop.ErrStaleResult
	}

	next := st.clone()
	next.ops.Succeed(asyncop.OpUpdate, v.token)
	if i := next.indexOf(v.expense.ID); i >= 0 {
		next.expenses[i] = v.expense
	}
	if next.editing != nil && next.editing.ID == v.expense.ID {
		next.editing = nil
	}
	if r.resort {
		gateway.SortByDateDesc(next.expenses)
	}
	return next, true, nil
}

func (r reducer) applyDelete(st state, v deleteApplied) (state, bool, error) {
	if v.err != nil {
		return failed(st, asyncop.OpDelete, v.token, v.err)
	}
	if v.token.Epoch != st.ops.Epoch() {
		return st, false, asyncop.ErrStaleResult
	}

	next := st.clone()
	next.ops.Succeed(asyncop.OpDelete, v.token)
	if i := next.indexOf(v.id); i >= 0 {
		next.expenses = append(next.expenses[:i], next.expenses[i+1:]...)
	}
	if next.editing != nil && next.editing.ID == v.id {
		next.editing = nil
	}
	return next, true, nil
}

func (r reducer) beginEdit(st state, v editBegan) (state, bool, error) {
	i := st.indexOf(v.id)
	if i < 0 {
		return st, false, fmt.Errorf("%w: %s", ErrUnknownExpense, v.id)
	}
	next := st.clone()
	e := next.expenses[i]
	next.editing = &e
	return next, true, nil
}

func (r reducer) cancelEdit(st state) (state, bool, error) {
	if st.editing == nil {
		return st, false, nil
	}
	next := st.clone()
	next.editing = nil
	return next, true, nil
}

func (r reducer) clearError(st state) (state, bool, error) {
	next := st.clone()
	if !next.ops.ClearError() {
		return st, false, nil
	}
	return next, true, nil
}

func (r reducer) changeIdentity(st state, v identityChanged) (state, bool, error) {
	if v.identity != nil && v.identity.UserID == st.userID {
		if v.identity.IsPremium == st.isPremium {
			return st, false, nil
		}
		next := st.clone()
		next.isPremium = v.identity.IsPremium
		return next, true, nil
	}

	next := state{ops: st.ops.Clone()}
	next.ops.Invalidate()
	if v.identity != nil {
		next.userID = v.identity.UserID
		next.isPremium = v.identity.IsPremium
	}
	return next, true, nil
}
