// Package session owns the signed-in identity and pushes every change of it
// into the expense store.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/expensetracker/internal/client/gateway"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrNotEligible = errors.New("premium activation is not available")
)

// Identity is the authenticated user as seen by the client.
type Identity struct {
	UserID    string
	Username  string
	Token     string
	IsPremium bool
}

// Store is the consumer of identity changes.
type Store interface {
	SetIdentity(ctx context.Context, id *Identity) error
	PremiumEligible() bool
}

// tokenClearer is implemented by authenticators that cache credentials.
type tokenClearer interface {
	ClearToken()
}

type Manager struct {
	auth   gateway.Authenticator
	store  Store
	logger logging.Logger

	mu      sync.RWMutex
	current *Identity
}

func NewManager(auth gateway.Authenticator, store Store, l logging.Logger) *Manager {
	return &Manager{auth: auth, store: store, logger: l.With(logging.FieldModule, "session")}
}

// Register creates an account and signs it in.
func (m *Manager) Register(ctx context.Context, username, password string) (*Identity, error) {
	acc, err := m.auth.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	m.logger.Info(ctx, "registered", logging.FieldUsername, username, logging.FieldUserID, acc.UserID)
	return m.become(ctx, acc), nil
}

// Login signs in and triggers the initial fetch of the user's expenses. A
// failed fetch does not fail the login; it shows up in the store's fetch status.
func (m *Manager) Login(ctx context.Context, username, password string) (*Identity, error) {
	acc, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn(ctx, "login failed", logging.FieldUsername, username, logging.FieldError, err)
		return nil, err
	}
	m.logger.Info(ctx, "logged in", logging.FieldUsername, username, logging.FieldUserID, acc.UserID)
	return m.become(ctx, acc), nil
}

func (m *Manager) become(ctx context.Context, acc gateway.Account) *Identity {
	id := &Identity{UserID: acc.UserID, Username: acc.Username, Token: acc.Token, IsPremium: acc.IsPremium}

	m.mu.Lock()
	m.current = id
	m.mu.Unlock()

	if err := m.store.SetIdentity(ctx, copyOf(id)); err != nil {
		m.logger.Warn(ctx, "initial fetch failed", logging.FieldUserID, id.UserID, logging.FieldError, err)
	}
	return copyOf(id)
}

// Logout forgets the identity and resets the store.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev == nil {
		return ErrNotLoggedIn
	}
	if c, ok := m.auth.(tokenClearer); ok {
		c.ClearToken()
	}
	m.logger.Info(ctx, "logged out", logging.FieldUserID, prev.UserID)
	return m.store.SetIdentity(ctx, nil)
}

// ActivatePremium persists the premium flag and refreshes the store's view
// of the identity. It requires the spend threshold to be crossed.
func (m *Manager) ActivatePremium(ctx context.Context) (*Identity, error) {
	cur := m.Current()
	if cur == nil {
		return nil, ErrNotLoggedIn
	}
	if !m.store.PremiumEligible() {
		return nil, ErrNotEligible
	}

	acc, err := m.auth.SetPremium(ctx, true)
	if err != nil {
		m.logger.Error(ctx, "premium activation failed", logging.FieldUserID, cur.UserID, logging.FieldError, err)
		return nil, err
	}

	m.mu.Lock()
	if m.current == nil || m.current.UserID != cur.UserID {
		m.mu.Unlock()
		return nil, ErrNotLoggedIn
	}
	m.current.IsPremium = acc.IsPremium
	next := copyOf(m.current)
	m.mu.Unlock()

	m.logger.Info(ctx, "premium activated", logging.FieldUserID, next.UserID)
	if err := m.store.SetIdentity(ctx, copyOf(next)); err != nil {
		return nil, err
	}
	return next, nil
}

// Current returns a copy of the signed-in identity, or nil.
func (m *Manager) Current() *Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyOf(m.current)
}

func copyOf(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
