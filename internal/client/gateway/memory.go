package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/dmitrijs2005/expensetracker/internal/cryptox"
	"github.com/google/uuid"
)

type memoryUser struct {
	account Account
	hash    string
}

// MemoryGateway is an in-process document store. It backs the client's
// demo mode and tests; ownership is not enforced.
type MemoryGateway struct {
	mu      sync.Mutex
	docs    map[string]models.Document
	order   []string
	users   map[string]*memoryUser
	current string
	failing map[string]error
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		docs:    make(map[string]models.Document),
		users:   make(map[string]*memoryUser),
		failing: make(map[string]error),
	}
}

// FailWith makes every subsequent call of op ("list", "insert", "update",
// "delete", "login", ...) fail with a *Error of the given kind. A nil kind
// clears the failure.
func (m *MemoryGateway) FailWith(op string, kind error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == nil {
		delete(m.failing, op)
		return
	}
	m.failing[op] = kind
}

func (m *MemoryGateway) injected(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fail(op, ErrUnavailable, err)
	}
	if kind, ok := m.failing[op]; ok {
		return fail(op, kind, nil)
	}
	return nil
}

func (m *MemoryGateway) List(ctx context.Context, userID string) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(ctx, "list"); err != nil {
		return nil, err
	}

	var out []models.Document
	for _, id := range m.order {
		doc := m.docs[id]
		if doc[models.FieldUserID] != userID {
			continue
		}
		c := clone(doc)
		c[models.FieldID] = id
		out = append(out, c)
	}
	return out, nil
}

func (m *MemoryGateway) Insert(ctx context.Context, doc models.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(ctx, "insert"); err != nil {
		return "", err
	}

	id := uuid.NewString()
	c := clone(doc)
	delete(c, models.FieldID)
	m.docs[id] = c
	m.order = append(m.order, id)
	return id, nil
}

func (m *MemoryGateway) Update(ctx context.Context, id string, doc models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(ctx, "update"); err != nil {
		return err
	}

	cur, ok := m.docs[id]
	if !ok {
		return fail("update", ErrNotFound, fmt.Errorf("document %s", id))
	}
	for k, v := range doc {
		if k == models.FieldID {
			continue
		}
		cur[k] = v
	}
	return nil
}

func (m *MemoryGateway) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(ctx, "delete"); err != nil {
		return err
	}

	if _, ok := m.docs[id]; !ok {
		return fail("delete", ErrNotFound, fmt.Errorf("document %s", id))
	}
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Seed stores a raw document as-is, bypassing validation, and returns its id.
func (m *MemoryGateway) Seed(doc models.Document) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, _ := doc[models.FieldID].(string)
	if id == "" {
		id = uuid.NewString()
	}
	c := clone(doc)
	delete(c, models.FieldID)
	m.docs[id] = c
	m.order = append(m.order, id)
	return id
}

func (m *MemoryGateway) Register(ctx context.Context, username, password string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(ctx, "register"); err != nil {
		return Account{}, err
	}
	if _, ok := m.users[username]; ok {
		return Account{}, fail("register", ErrAlreadyExists, nil)
	}

	u := &memoryUser{
		account: Account{UserID: uuid.NewString(), Username: username, Token: uuid.NewString()},
		hash:    cryptox.HashPassword(password),
	}
	m.users[username] = u
	m.current = username
	return u.account, nil
}

func (m *MemoryGateway) Login(ctx context.Context, username, password string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(ctx, "login"); err != nil {
		return Account{}, err
	}
	u, ok := m.users[username]
	if !ok {
		return Account{}, fail("login", ErrUnauthorized, nil)
	}
	if ok, err := cryptox.VerifyPassword(password, u.hash); err != nil || !ok {
		return Account{}, fail("login", ErrUnauthorized, err)
	}
	m.current = username
	return u.account, nil
}

func (m *MemoryGateway) SetPremium(ctx context.Context, isPremium bool) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.injected(ctx, "set premium"); err != nil {
		return Account{}, err
	}
	u, ok := m.users[m.current]
	if !ok {
		return Account{}, fail("set premium", ErrUnauthorized, nil)
	}
	u.account.IsPremium = isPremium
	return u.account, nil
}

// ClearToken ends the in-memory session.
func (m *MemoryGateway) ClearToken() {
	m.mu.Lock()
	m.current = ""
	m.mu.Unlock()
}

func clone(doc models.Document) models.Document {
	c := make(models.Document, len(doc))
	for k, v := range doc {
		c[k] = v
	}
	return c
}
