package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(`
[database]
driver = "sqlite3"
path = "/var/lib/venuecrm/venue.db"
`)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "UTC", cfg.Venue.Timezone)
	assert.Equal(t, "primary", cfg.GoogleCalendar.CalendarID)
	assert.Equal(t, 5, cfg.Workers.MaxRetries)
	assert.Equal(t, 2.0, cfg.Workers.Backoff)

	assert.Equal(t, psqlbuilder.SQLite, cfg.Database.Dialect())
	assert.Equal(t, "/var/lib/venuecrm/venue.db"+psqlbuilder.SQLiteDSNParams, cfg.Database.DSN())
}

func TestParse_Postgres(t *testing.T) {
	cfg, err := Parse(`
[database]
host = "db"
user = "crm"
password = "secret"
dbname = "venue"

[venue]
timezone = "Europe/Moscow"
`)
	require.NoError(t, err)

	assert.Equal(t, psqlbuilder.Postgres, cfg.Database.Dialect())
	assert.Equal(t, "host=db port=5432 user=crm password=secret dbname=venue sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "Europe/Moscow", cfg.Venue.Location().String())
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{
			name: "unknown driver",
			toml: "[database]\ndriver = \"mysql\"",
			want: "database.driver",
		},
		{
			name: "sqlite without path",
			toml: "[database]\ndriver = \"sqlite3\"",
			want: "database.path",
		},
		{
			name: "postgres without host",
			toml: "[database]\ndbname = \"venue\"",
			want: "database.host",
		},
		{
			name: "bad timezone",
			toml: "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[venue]\ntimezone = \"Mars/Olympus\"",
			want: "venue.timezone",
		},
		{
			name: "telegram without token",
			toml: "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[telegram]\nenabled = true\nchat_ids = [1]",
			want: "telegram.bot_token",
		},
		{
			name: "calendar without credentials",
			toml: "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[google_calendar]\nenabled = true",
			want: "google_calendar.credentials_file",
		},
		{
			name: "redis without address",
			toml: "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[redis]\nenabled = true",
			want: "redis.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("VENUECRM_TG_TOKEN", "123:abc")
	t.Setenv("VENUECRM_DB_PATH", "/tmp/venue.db")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
driver = "sqlite3"
path = "${VENUECRM_DB_PATH}"

[telegram]
enabled = true
bot_token = "${VENUECRM_TG_TOKEN}"
chat_ids = [100, 200]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, []int64{100, 200}, cfg.Telegram.ChatIDs)
	assert.Equal(t, "/tmp/venue.db", cfg.Database.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
