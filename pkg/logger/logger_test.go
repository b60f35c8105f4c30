package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Stdout", func(t *testing.T) {
		log, err := New("", "info")
		require.NoError(t, err)
		assert.NoError(t, log.Close())
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(path, "debug")
		require.NoError(t, err)
		log.Info("hello %s", "file")
		require.NoError(t, log.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello file")
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := New("", "loud")
		assert.Error(t, err)
	})

	t.Run("EmptyLevelDefaultsToInfo", func(t *testing.T) {
		log, err := NewWithOptions(Options{Format: "console", App: "venuecrm", Env: "test"})
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, log.Zerolog().GetLevel())
	})
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zerolog.WarnLevel)

	log.Info("skipped")
	log.Warn("booking %d conflicts", 7)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "booking 7 conflicts", entry["message"])
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zerolog.DebugLevel).With("request_id", "abc")
	log.Error("failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "abc", entry["request_id"])
}

func TestLogger_Fatal(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zerolog.InfoLevel)
	code := -1
	log.exit = func(c int) { code = c }

	log.Fatal("boom")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "boom")
}
