package documents

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
)

type key struct {
	collection, id string
}

// MemoryRepository keeps documents in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	docs  map[key]*models.Document
	order []key
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[key]*models.Document)}
}

func (r *MemoryRepository) Insert(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{doc.Collection, doc.ID}
	if _, ok := r.docs[k]; ok {
		return common.ErrAlreadyExists
	}
	r.docs[k] = doc.Clone()
	r.order = append(r.order, k)
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, collection, id string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[key{collection, id}]
	if !ok {
		return nil, common.ErrNotFound
	}
	return d.Clone(), nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, collection, userID string) ([]*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Document
	for _, k := range r.order {
		d := r.docs[k]
		if k.collection == collection && d.UserID == userID {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{doc.Collection, doc.ID}
	cur, ok := r.docs[k]
	if !ok {
		return common.ErrNotFound
	}
	next := cur.Clone()
	next.Body = doc.Clone().Body
	r.docs[k] = next
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{collection, id}
	if _, ok := r.docs[k]; !ok {
		return common.ErrNotFound
	}
	delete(r.docs, k)
	for i, o := range r.order {
		if o == k {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
