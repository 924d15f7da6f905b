package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
)

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*models.User
	byName map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*models.User),
		byName: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return common.ErrAlreadyExists
	}
	if _, ok := r.byID[user.ID]; ok {
		return common.ErrAlreadyExists
	}
	u := *user
	r.byID[u.ID] = &u
	r.byName[u.UserName] = u.ID
	return nil
}

func (r *MemoryRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byName[userName]
	r.mu.RUnlock()
	if !ok {
		return nil, common.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *MemoryRepository) SetPremium(_ context.Context, id string, isPremium bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	u.IsPremium = isPremium
	return nil
}
