// Package store holds the client's canonical expense collection.
//
// A Store owns the ordered collection, the single editing slot and the
// per-operation status of fetch, add, update and delete. Intents call the
// gateway without holding the store lock and apply the outcome as one
// whole-state replacement; a result that was superseded by a later call of
// the same class is discarded with asyncop.ErrStaleResult.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
)

type Option func(*Store)

// WithLogger sets the logger used for gateway failures and skipped documents.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now for stamping new expenses.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithResortOnMutation re-sorts the collection by date after every add and
// update. By default new records are prepended and updates stay in place.
func WithResortOnMutation(on bool) Option {
	return func(s *Store) { s.reducer.resort = on }
}

type Store struct {
	gw      gateway.Gateway
	logger  logging.Logger
	now     func() time.Time
	reducer reducer

	mu sync.Mutex
	st state

	subsMu  sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

func New(gw gateway.Gateway, opts ...Option) *Store {
	s := &Store{
		gw:     gw,
		logger: logging.NopLogger{},
		now:    time.Now,
		subs:   make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With(logging.FieldModule, "store")
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.snapshot()
}

// PremiumEligible reports the current value of the premium gate.
func (s *Store) PremiumEligible() bool {
	return s.Snapshot().Derived.PremiumEligible
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change and must not call back
// into a blocking intent. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subsMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// dispatch applies res under the lock and notifies subscribers when the
// state changed.
func (s *Store) dispatch(res result) error {
	s.mu.Lock()
	next, changed, err := s.reducer.reduce(s.st, res)
	var snap Snapshot
	if changed {
		s.st = next
		snap = next.snapshot()
	}
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
	return err
}

// mutate runs fn on a copy of the state under the lock and installs the
// copy when fn succeeds. Used to start operations.
func (s *Store) mutate(fn func(st *state) error) error {
	s.mu.Lock()
	next := s.st.clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.st = next
	snap := next.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// logFailure records the cause behind a user-facing failure message.
func (s *Store) logFailure(ctx context.Context, op string, err error, kv ...any) {
	args := append([]any{logging.FieldOperation, op, logging.FieldError, err}, kv...)
	s.logger.Error(ctx, "remote operation failed", args...)
}
