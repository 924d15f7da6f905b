// Package documents enforces per-owner access to the schemaless document
// collections.
package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/logging"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
	docrepo "github.com/dmitrijs2005/expensetracker/internal/server/repositories/documents"
	"github.com/google/uuid"
)

// Body keys with server-side meaning.
const (
	FieldID        = "id"
	FieldUserID    = "userId"
	FieldCreatedAt = "createdAt"
)

type Service struct {
	repo   docrepo.Repository
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(repo docrepo.Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With(logging.FieldModule, "documents"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func requireCollection(collection string) error {
	if collection == "" {
		return fmt.Errorf("%w: collection is required", common.ErrInvalidArgument)
	}
	return nil
}

// List returns the documents of ownerFilter with their ids folded into the
// body. Callers may only list their own documents.
func (s *Service) List(ctx context.Context, caller, collection, ownerFilter string) ([]map[string]any, error) {
	if err := requireCollection(collection); err != nil {
		return nil, err
	}
	if ownerFilter != caller {
		return nil, common.ErrPermissionDenied
	}

	docs, err := s.repo.ListByOwner(ctx, collection, caller)
	if err != nil {
		return nil, s.internal(ctx, "list", err)
	}

	out := make([]map[string]any, len(docs))
	for i, d := range docs {
		body := d.Clone().Body
		body[FieldID] = d.ID
		out[i] = body
	}
	return out, nil
}

// Insert stores body under a new id. The body must name the caller as its
// owner.
func (s *Service) Insert(ctx context.Context, caller, collection string, body map[string]any) (string, error) {
	if err := requireCollection(collection); err != nil {
		return "", err
	}
	owner, ok := body[FieldUserID].(string)
	if !ok || owner == "" {
		return "", fmt.Errorf("%w: %s is required", common.ErrInvalidArgument, FieldUserID)
	}
	if owner != caller {
		return "", common.ErrPermissionDenied
	}

	doc := &models.Document{
		ID:         s.newID(),
		Collection: collection,
		UserID:     caller,
		Body:       make(map[string]any, len(body)),
		CreatedAt:  s.now().UTC(),
	}
	for k, v := range body {
		if k != FieldID {
			doc.Body[k] = v
		}
	}

	if err := s.repo.Insert(ctx, doc); err != nil {
		return "", s.internal(ctx, "insert", err)
	}
	s.logger.Debug(ctx, "document inserted", logging.FieldCollection, collection, logging.FieldExpenseID, doc.ID)
	return doc.ID, nil
}

// Update merges fields into the stored body. The id, owner and creation
// timestamp keep their stored values.
func (s *Service) Update(ctx context.Context, caller, collection, id string, fields map[string]any) error {
	doc, err := s.owned(ctx, caller, collection, id)
	if err != nil {
		return err
	}

	for k, v := range fields {
		switch k {
		case FieldID, FieldUserID, FieldCreatedAt:
			continue
		}
		doc.Body[k] = v
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return s.internal(ctx, "update", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, caller, collection, id string) error {
	if _, err := s.owned(ctx, caller, collection, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return s.internal(ctx, "delete", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, caller, collection, id string) (*models.Document, error) {
	if err := requireCollection(collection); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrInvalidArgument)
	}

	doc, err := s.repo.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, s.internal(ctx, "get", err)
	}
	if doc.UserID != caller {
		return nil, common.ErrPermissionDenied
	}
	return doc, nil
}

func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "document store error", logging.FieldOperation, op, logging.FieldError, err)
	return common.ErrInternal
}
