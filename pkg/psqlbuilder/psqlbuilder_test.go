package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Placeholders(t *testing.T) {
	pg := New(Postgres)
	query, args, err := pg.Select("id").From("bookings").Where(squirrel.Eq{"booking_date": "2026-02-14"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE booking_date = $1", query)
	assert.Equal(t, []interface{}{"2026-02-14"}, args)

	lite := New(SQLite)
	query, _, err = lite.Select("id").From("bookings").Where(squirrel.Eq{"booking_date": "2026-02-14"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE booking_date = ?", query)
}

func TestBuilder_ForUpdate(t *testing.T) {
	query, _, err := New(Postgres).ForUpdate(New(Postgres).Select("id").From("bookings")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings FOR UPDATE", query)

	lite := New(SQLite)
	query, _, err = lite.ForUpdate(lite.Select("id").From("bookings")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings", query)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}
