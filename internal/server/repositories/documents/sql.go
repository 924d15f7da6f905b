package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/dbx"
	"github.com/dmitrijs2005/expensetracker/internal/server/models"
)

// SQLRepository stores the document body as JSON text.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: d}
}

func (r *SQLRepository) Insert(ctx context.Context, doc *models.Document) error {
	body, err := json.Marshal(doc.Body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	query := `INSERT INTO documents (id, collection, user_id, body, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, r.dialect.Rebind(query),
		doc.ID, doc.Collection, doc.UserID, string(body), dbx.FormatTime(doc.CreatedAt))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectDocument = `SELECT id, collection, user_id, body, created_at FROM documents`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*models.Document, error) {
	var (
		doc       models.Document
		body      string
		createdAt string
	)
	if err := s.Scan(&doc.ID, &doc.Collection, &doc.UserID, &body, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(body), &doc.Body); err != nil {
		return nil, fmt.Errorf("document %s: decode body: %w", doc.ID, err)
	}
	var err error
	if doc.CreatedAt, err = dbx.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("document %s: bad created_at: %w", doc.ID, err)
	}
	return &doc, nil
}

func (r *SQLRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectDocument+` WHERE collection = ? AND id = ?`), collection, id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

// ListByOwner returns the owner's documents in insertion order.
func (r *SQLRepository) ListByOwner(ctx context.Context, collection, userID string) ([]*models.Document, error) {
	query := selectDocument + ` WHERE collection = ? AND user_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), collection, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Update replaces the body of an existing document.
func (r *SQLRepository) Update(ctx context.Context, doc *models.Document) error {
	body, err := json.Marshal(doc.Body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	query := `UPDATE documents SET body = ? WHERE collection = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), string(body), doc.Collection, doc.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, collection, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM documents WHERE collection = ? AND id = ?`), collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}
