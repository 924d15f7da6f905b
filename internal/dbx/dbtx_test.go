package dbx

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openMemDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := sql.Open(SQLite.Driver, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS expenses (id TEXT PRIMARY KEY, amount TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func rowCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM expenses`).Scan(&n))
	return n
}

func insert(ctx context.Context, tx DBTX, id string) error {
	_, err := tx.ExecContext(ctx, SQLite.Rebind(`INSERT INTO expenses(id, amount) VALUES (?, ?)`), id, "1.00")
	return err
}

func TestWithTx(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx DBTX) error
		wantErr   error
		wantCount int
	}{
		{
			name: "commit on success",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insert(ctx, tx, "a"); err != nil {
					return err
				}
				return insert(ctx, tx, "b")
			},
			wantCount: 2,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insert(ctx, tx, "a"); err != nil {
					return err
				}
				return boom
			},
			wantErr: boom,
		},
		{
			name: "rollback on constraint violation",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insert(ctx, tx, "dup"); err != nil {
					return err
				}
				return insert(ctx, tx, "dup")
			},
			wantErr: errAny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openMemDB(t, strings.ReplaceAll(t.Name(), "/", "_"))

			err := WithTx(context.Background(), db, nil, tt.fn)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case tt.wantErr == errAny:
				require.Error(t, err)
			default:
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCount, rowCount(t, db))
		})
	}
}

var errAny = errors.New("any")

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openMemDB(t, "dbx_panic")

	require.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insert(ctx, tx, "p"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, rowCount(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := openMemDB(t, "dbx_closed")
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	assert.Error(t, err)
}
