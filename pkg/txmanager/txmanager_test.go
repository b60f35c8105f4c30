package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

type countingObserver struct {
	observed int
	retries  int
}

func (o *countingObserver) ObserveTx(string, time.Duration, error) { o.observed++ }
func (o *countingObserver) IncTxRetry(string)                      { o.retries++ }

func setup(t *testing.T) (*sql.DB, *TransactionManager, *countingObserver) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "tx.db") + "?_txlock=immediate&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`)
	require.NoError(t, err)

	obs := &countingObserver{}
	mgr := NewTransactionManager(db, psqlbuilder.SQLite, obs)
	mgr.backoff = time.Millisecond
	return db, mgr, obs
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestDo_CommitAndRollback(t *testing.T) {
	db, mgr, obs := setup(t)
	ctx := context.Background()

	err := mgr.Do(ctx, func(txCtx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(txCtx))
		_, err := dbmetrics.GetExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('a')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))

	boom := errors.New("boom")
	err = mgr.DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := dbmetrics.GetExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('b')`)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, countItems(t, db))
	assert.Equal(t, 2, obs.observed)
}

func TestDo_NestedJoinsOuter(t *testing.T) {
	db, mgr, _ := setup(t)
	ctx := context.Background()

	err := mgr.Do(ctx, func(outer context.Context) error {
		return mgr.DoSerializable(outer, func(inner context.Context) error {
			assert.Equal(t, dbmetrics.GetExecutor(outer, db), dbmetrics.GetExecutor(inner, db))
			_, err := dbmetrics.GetExecutor(inner, db).ExecContext(inner, `INSERT INTO items (name) VALUES ('n')`)
			return err
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	_, mgr, obs := setup(t)
	attempts := 0

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("wrapped: %w", &pq.Error{Code: "40001"})
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, obs.retries)
}

func TestDoSerializable_GivesUp(t *testing.T) {
	_, mgr, _ := setup(t)
	attempts := 0

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return &pq.Error{Code: "40001"}
	})
	assert.Error(t, err)
	assert.Equal(t, DefaultMaxAttempts, attempts)
}

func TestDoReadOnly(t *testing.T) {
	db, mgr, _ := setup(t)
	_, err := db.Exec(`INSERT INTO items (name) VALUES ('x')`)
	require.NoError(t, err)

	var n int
	err = mgr.DoReadOnly(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsReadOnly(ctx))
		return dbmetrics.GetExecutor(ctx, db).QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	err = mgr.Do(context.Background(), func(ctx context.Context) error {
		assert.False(t, dbmetrics.IsReadOnly(ctx))
		return nil
	})
	require.NoError(t, err)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsRetryable(&pq.Error{Code: "40P01"}))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}
