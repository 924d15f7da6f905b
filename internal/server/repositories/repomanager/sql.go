package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/expensetracker/internal/dbx"
	"github.com/dmitrijs2005/expensetracker/internal/server/migrations"
	"github.com/dmitrijs2005/expensetracker/internal/server/repositories/documents"
	"github.com/dmitrijs2005/expensetracker/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager vends database/sql repositories over one connection
// pool.
type SQLRepositoryManager struct {
	db      *sql.DB
	dialect dbx.Dialect
}

// NewSQLRepositoryManager opens dsn with the dialect's driver and runs the
// migrations.
func NewSQLRepositoryManager(ctx context.Context, d dbx.Dialect, dsn string) (*SQLRepositoryManager, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if d == dbx.SQLite {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := &SQLRepositoryManager{db: db, dialect: d}
	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return m, nil
}

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.Name); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, migrations.Dir(m.dialect.Name))
}

func (m *SQLRepositoryManager) Users() users.Repository {
	return users.NewSQLRepository(m.db, m.dialect)
}

func (m *SQLRepositoryManager) Documents() documents.Repository {
	return documents.NewSQLRepository(m.db, m.dialect)
}

// DB exposes the pool, mainly for tests.
func (m *SQLRepositoryManager) DB() *sql.DB {
	return m.db
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
