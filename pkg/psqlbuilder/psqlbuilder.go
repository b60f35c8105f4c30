package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect identifies the SQL engine behind database/sql.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// SQLiteDSNParams: writers take the database lock at BEGIN and wait up to 5s for it.
const SQLiteDSNParams = "?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"

// ParseDialect maps a database/sql driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case Postgres:
		return Postgres, nil
	case SQLite, "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("psqlbuilder: unsupported driver %q", driver)
	}
}

// Builder wraps squirrel with dialect specific placeholders and locking clauses.
type Builder struct {
	dialect Dialect
	sb      squirrel.StatementBuilderType
}

// New creates a Builder for the dialect.
func New(dialect Dialect) Builder {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if dialect == Postgres {
		format = squirrel.Dollar
	}
	return Builder{
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(format),
	}
}

// Dialect returns the configured dialect.
func (b Builder) Dialect() Dialect {
	return b.dialect
}

func (b Builder) Select(columns ...string) squirrel.SelectBuilder {
	return b.sb.Select(columns...)
}

func (b Builder) Insert(table string) squirrel.InsertBuilder {
	return b.sb.Insert(table)
}

func (b Builder) Update(table string) squirrel.UpdateBuilder {
	return b.sb.Update(table)
}

func (b Builder) Delete(table string) squirrel.DeleteBuilder {
	return b.sb.Delete(table)
}

// ForUpdate appends a row lock when the engine supports it.
// SQLite serialises writers with BEGIN IMMEDIATE instead.
func (b Builder) ForUpdate(sel squirrel.SelectBuilder) squirrel.SelectBuilder {
	if b.dialect == Postgres {
		return sel.Suffix("FOR UPDATE")
	}
	return sel
}
