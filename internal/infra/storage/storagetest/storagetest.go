// Package storagetest открывает временную SQLite базу со схемой для тестов.
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

// DSNParams параметры подключения, совпадающие с production настройками SQLite
const DSNParams = psqlbuilder.SQLiteDSNParams

// NewSQLite открывает базу во временной директории теста
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "venuecrm.db") + DSNParams
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Ping())
	require.NoError(t, migrations.Apply(context.Background(), db, psqlbuilder.SQLite))
	return db
}

// Builder возвращает squirrel builder для SQLite
func Builder() psqlbuilder.Builder {
	return psqlbuilder.New(psqlbuilder.SQLite)
}
