package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

// Apply создает схему, если её ещё нет. Все запросы идемпотентны.
func Apply(ctx context.Context, db *sql.DB, dialect psqlbuilder.Dialect) error {
	var queries []string
	switch dialect {
	case psqlbuilder.Postgres:
		queries = postgresSchema
	case psqlbuilder.SQLite:
		queries = sqliteSchema
	default:
		return fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("migrations: error executing query %s: %w", query, err)
		}
	}
	return nil
}
