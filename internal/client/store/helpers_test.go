package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/client/session"
	"github.com/stretchr/testify/require"
)

// heldGateway parks calls of the held ops until the test releases them,
// so tests can choose completion order.
type heldGateway struct {
	*gateway.MemoryGateway

	held  map[string]bool
	calls chan heldCall

	mu    sync.Mutex
	count map[string]int
}

type heldCall struct {
	op      string
	release chan error
}

// proceed lets the call through to the in-memory store.
func (c heldCall) proceed() { c.release <- nil }

// fail makes the call return a gateway error.
func (c heldCall) fail() {
	c.release <- &gateway.Error{Op: c.op, Kind: gateway.ErrUnavailable}
}

func newHeldGateway(ops ...string) *heldGateway {
	h := &heldGateway{
		MemoryGateway: gateway.NewMemoryGateway(),
		held:          map[string]bool{},
		calls:         make(chan heldCall),
		count:         map[string]int{},
	}
	for _, op := range ops {
		h.held[op] = true
	}
	return h
}

func (h *heldGateway) hold(op string) error {
	h.mu.Lock()
	h.count[op]++
	h.mu.Unlock()

	if !h.held[op] {
		return nil
	}
	c := heldCall{op: op, release: make(chan error)}
	h.calls <- c
	return <-c.release
}

func (h *heldGateway) callCount(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count[op]
}

func (h *heldGateway) next(t *testing.T) heldCall {
	t.Helper()
	select {
	case c := <-h.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for gateway call")
		return heldCall{}
	}
}

func (h *heldGateway) List(ctx context.Context, userID string) ([]models.Document, error) {
	if err := h.hold("list"); err != nil {
		return nil, err
	}
	return h.MemoryGateway.List(ctx, userID)
}

func (h *heldGateway) Insert(ctx context.Context, doc models.Document) (string, error) {
	if err := h.hold("insert"); err != nil {
		return "", err
	}
	return h.MemoryGateway.Insert(ctx, doc)
}

func (h *heldGateway) Update(ctx context.Context, id string, doc models.Document) error {
	if err := h.hold("update"); err != nil {
		return err
	}
	return h.MemoryGateway.Update(ctx, id, doc)
}

func (h *heldGateway) Delete(ctx context.Context, id string) error {
	if err := h.hold("delete"); err != nil {
		return err
	}
	return h.MemoryGateway.Delete(ctx, id)
}

var (
	day1 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	day3 = time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
)

func seedDoc(id, user, amount string, date time.Time) models.Document {
	return models.Document{
		models.FieldID:          id,
		models.FieldAmount:      amount,
		models.FieldDescription: "seed " + id,
		models.FieldCategory:    "Food",
		models.FieldDate:        models.FormatTimestamp(date),
		models.FieldUserID:      user,
		models.FieldCreatedAt:   models.FormatTimestamp(date),
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func user(id string, premium bool) *session.Identity {
	return &session.Identity{UserID: id, Username: id, IsPremium: premium}
}

// signedIn returns a store with u1 signed in and its collection fetched.
func signedIn(t *testing.T, gw gateway.Gateway, opts ...Option) *Store {
	t.Helper()
	s := New(gw, opts...)
	require.NoError(t, s.SetIdentity(context.Background(), user("u1", false)))
	return s
}

func expenseIDs(snap Snapshot) []string {
	out := make([]string, len(snap.Expenses))
	for i, e := range snap.Expenses {
		out[i] = e.ID
	}
	return out
}

// async runs fn in a goroutine and returns a channel with its error.
func async(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for intent")
		return nil
	}
}

// committingGateway stores each insert, then parks before answering until
// the test releases it.
type committingGateway struct {
	*gateway.MemoryGateway
	parked chan chan struct{}
}

func newCommittingGateway() *committingGateway {
	return &committingGateway{MemoryGateway: gateway.NewMemoryGateway(), parked: make(chan chan struct{})}
}

func (g *committingGateway) Insert(ctx context.Context, doc models.Document) (string, error) {
	id, err := g.MemoryGateway.Insert(ctx, doc)
	release := make(chan struct{})
	g.parked <- release
	<-release
	return id, err
}

func (g *committingGateway) next(t *testing.T) chan struct{} {
	t.Helper()
	select {
	case c := <-g.parked:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for insert")
		return nil
	}
}

// foreignGateway answers every List with an extra document owned by
// someone else.
type foreignGateway struct {
	*gateway.MemoryGateway
	foreign models.Document
}

func (g *foreignGateway) List(ctx context.Context, userID string) ([]models.Document, error) {
	docs, err := g.MemoryGateway.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(docs, g.foreign), nil
}
