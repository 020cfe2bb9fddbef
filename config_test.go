package fluentsql

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":memory:", cfg.Path)
	assert.True(t, cfg.Complete)
	assert.Equal(t, time.Hour, cfg.BusyTimeout)
	assert.True(t, cfg.ForeignKeys)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "file::memory:?_pragma=busy_timeout(3600000)&_pragma=foreign_keys(1)", cfg.DSN())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
path: data/app
complete: true
busy_timeout: 30s
foreign_keys: false
journal_mode: wal
type_check: true
debug: true
`))
	require.NoError(t, err)

	assert.Equal(t, "data/app", cfg.Path)
	assert.Equal(t, 30*time.Second, cfg.BusyTimeout)
	assert.False(t, cfg.ForeignKeys)
	assert.True(t, cfg.TypeCheck)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "data/app.db", cfg.FilePath())
	assert.Equal(t, "file:data/app.db?_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)", cfg.DSN())
}

func TestParseConfig_KeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("type_check: true\n"))
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.Path)
	assert.Equal(t, time.Hour, cfg.BusyTimeout)
	assert.True(t, cfg.ForeignKeys)
}

func TestParseConfig_CompleteOff(t *testing.T) {
	cfg, err := ParseConfig([]byte("path: data/app\ncomplete: false\n"))
	require.NoError(t, err)

	assert.Equal(t, "data/app", cfg.FilePath())
	assert.Equal(t, "file:data/app?_pragma=busy_timeout(3600000)&_pragma=foreign_keys(1)", cfg.DSN())
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty path":       "path: ''\n",
		"negative timeout": "busy_timeout: -1s\n",
		"journal mode":     "journal_mode: sideways\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	_, err := ParseConfig([]byte("path: [unclosed"))
	assert.Error(t, err)
}

func TestConfig_FilePath(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Path: "app"}, "app"},
		{Config{Path: "app", Complete: true}, "app.db"},
		{Config{Path: "app.db", Complete: true}, "app.db"},
		{Config{Path: ":memory:", Complete: true}, ":memory:"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.FilePath())
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(path, []byte("path: test.db\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test.db", cfg.Path)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
