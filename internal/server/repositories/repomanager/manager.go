// Package repomanager vends the repositories of one storage backend:
// in-memory, SQLite (modernc) or PostgreSQL (pgx), the SQL ones migrated
// with goose on open.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/expensetracker/internal/dbx"
	"github.com/dmitrijs2005/expensetracker/internal/server/repositories/documents"
	"github.com/dmitrijs2005/expensetracker/internal/server/repositories/users"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type RepositoryManager interface {
	Users() users.Repository
	Documents() documents.Repository
	Close() error
}

// Open builds the manager for backend. dsn is the Postgres DSN or the SQLite
// file path; it is ignored by the memory backend.
func Open(ctx context.Context, backend, dsn string) (RepositoryManager, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryRepositoryManager(), nil
	case BackendSQLite:
		return NewSQLRepositoryManager(ctx, dbx.SQLite, dsn)
	case BackendPostgres:
		return NewSQLRepositoryManager(ctx, dbx.Postgres, dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
