// Package asyncop tracks the lifecycle of the store's remote operations.
//
// Every operation class (fetch, add, update, delete) moves through
// idle → pending → succeeded | failed. Each Begin issues a fresh token and
// only the holder of the latest token may complete the operation, so a slow
// earlier call can never overwrite the outcome of a later one.
package asyncop

import (
	"errors"
	"fmt"
)

// ErrStaleResult is returned when a result arrives for a superseded call.
var ErrStaleResult = errors.New("stale operation result discarded")

// Op names an operation class.
type Op string

const (
	OpFetch  Op = "fetch"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Ops lists every operation class.
var Ops = []Op{OpFetch, OpAdd, OpUpdate, OpDelete}

// Phase is the state of an operation class.
type Phase string

const (
	Idle      Phase = "idle"
	Pending   Phase = "pending"
	Succeeded Phase = "succeeded"
	Failed    Phase = "failed"
)

// Status is the observable state of one operation class. Error is set only
// in the Failed phase.
type Status struct {
	Phase Phase
	Error string
}

// Token identifies one issued call. Tokens from a previous session epoch
// never match.
type Token struct {
	Epoch uint64
	Seq   uint64
}

func (t Token) String() string {
	return fmt.Sprintf("%d.%d", t.Epoch, t.Seq)
}

type slot struct {
	status   Status
	latest   uint64
	failedAt uint64
}

// Tracker is a value type: methods with pointer receivers mutate it in place,
// and copying a Tracker snapshots it. It is not safe for concurrent use; the
// owner serializes access.
type Tracker struct {
	epoch    uint64
	seq      uint64
	failures uint64
	slots    map[Op]slot
}

func (t *Tracker) ensure() {
	if t.slots == nil {
		t.slots = make(map[Op]slot, len(Ops))
	}
}

// Clone returns an independent copy.
func (t Tracker) Clone() Tracker {
	c := t
	c.slots = make(map[Op]slot, len(t.slots))
	for k, v := range t.slots {
		c.slots[k] = v
	}
	return c
}

// Status reports the current state of op.
func (t Tracker) Status(op Op) Status {
	s, ok := t.slots[op]
	if !ok {
		return Status{Phase: Idle}
	}
	return s.status
}

// Statuses returns the state of every operation class.
func (t Tracker) Statuses() map[Op]Status {
	out := make(map[Op]Status, len(Ops))
	for _, op := range Ops {
		out[op] = t.Status(op)
	}
	return out
}

// Begin moves op to pending, clears its error and returns the new latest token.
func (t *Tracker) Begin(op Op) Token {
	t.ensure()
	t.seq++
	t.slots[op] = slot{status: Status{Phase: Pending}, latest: t.seq}
	return Token{Epoch: t.epoch, Seq: t.seq}
}

// Latest reports whether tok is the most recent token issued for op in the
// current epoch.
func (t Tracker) Latest(op Op, tok Token) bool {
	s, ok := t.slots[op]
	return ok && tok.Epoch == t.epoch && tok.Seq == s.latest
}

// Succeed completes op if tok is still the latest and op is pending.
func (t *Tracker) Succeed(op Op, tok Token) bool {
	if !t.completable(op, tok) {
		return false
	}
	t.slots[op] = slot{status: Status{Phase: Succeeded}, latest: tok.Seq}
	return true
}

// Fail records msg as the failure of op if tok is still the latest and op
// is pending.
func (t *Tracker) Fail(op Op, tok Token, msg string) bool {
	if !t.completable(op, tok) {
		return false
	}
	t.failures++
	t.slots[op] = slot{status: Status{Phase: Failed, Error: msg}, latest: tok.Seq, failedAt: t.failures}
	return true
}

func (t Tracker) completable(op Op, tok Token) bool {
	return t.Latest(op, tok) && t.slots[op].status.Phase == Pending
}

// ClearError moves the most recently failed op back to idle. It reports
// whether anything changed.
func (t *Tracker) ClearError() bool {
	target, _, ok := t.LastError()
	if !ok {
		return false
	}

	s := t.slots[target]
	s.status = Status{Phase: Idle}
	s.failedAt = 0
	t.slots[target] = s
	return true
}

// LastError returns the op and message of the most recent failure that is
// still displayed, if any.
func (t Tracker) LastError() (Op, string, bool) {
	var (
		target Op
		newest uint64
	)
	for op, s := range t.slots {
		if s.status.Phase == Failed && s.failedAt > newest {
			target, newest = op, s.failedAt
		}
	}
	if newest == 0 {
		return "", "", false
	}
	return target, t.slots[target].status.Error, true
}

// Invalidate starts a new epoch: all outstanding tokens become stale and
// every op returns to idle.
func (t *Tracker) Invalidate() {
	t.epoch++
	t.slots = make(map[Op]slot, len(Ops))
}

// Epoch returns the current session epoch.
func (t Tracker) Epoch() uint64 {
	return t.epoch
}
