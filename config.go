package fluentsql

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config, SQLite bağlantısının ayarlarıdır. YAML'dan yüklenebilir:
//
//	path: data/app
//	complete: true
//	busy_timeout: 30s
//	foreign_keys: true
//	journal_mode: WAL
//	type_check: true
type Config struct {
	// Path is the database file, or ":memory:".
	Path string `yaml:"path"`
	// Complete appends ".db" to Path when it has no ".db" suffix.
	Complete bool `yaml:"complete"`
	// BusyTimeout is how long a statement waits on a locked database.
	BusyTimeout time.Duration `yaml:"busy_timeout"`
	ForeignKeys bool          `yaml:"foreign_keys"`
	// JournalMode is passed to PRAGMA journal_mode when set (e.g. "WAL").
	JournalMode string `yaml:"journal_mode"`
	TypeCheck   bool   `yaml:"type_check"`
	Debug       bool   `yaml:"debug"`
}

// DefaultConfig returns an in-memory configuration with a one hour busy
// timeout and foreign keys enforced. File paths get a ".db" suffix.
func DefaultConfig() *Config {
	return &Config{
		Path:        ":memory:",
		Complete:    true,
		BusyTimeout: time.Hour,
		ForeignKeys: true,
	}
}

var journalModes = map[string]bool{
	"DELETE": true, "TRUNCATE": true, "PERSIST": true, "MEMORY": true, "WAL": true, "OFF": true,
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return WrapError("config", fmt.Errorf("%w: path is required", ErrInvalidArgument))
	}
	if c.BusyTimeout < 0 {
		return WrapError("config", fmt.Errorf("%w: busy_timeout cannot be negative", ErrInvalidArgument))
	}
	if c.JournalMode != "" && !journalModes[strings.ToUpper(c.JournalMode)] {
		return WrapError("config", fmt.Errorf("%w: unknown journal_mode %q", ErrInvalidArgument, c.JournalMode))
	}
	return nil
}

// FilePath returns Path with ".db" appended when Complete is set.
func (c *Config) FilePath() string {
	if c.Path == ":memory:" || !c.Complete || strings.HasSuffix(c.Path, ".db") {
		return c.Path
	}
	return c.Path + ".db"
}

// DSN builds a modernc.org/sqlite data source name. Pragmas are applied to
// every connection the driver opens.
func (c *Config) DSN() string {
	var pragmas []string
	if c.BusyTimeout > 0 {
		pragmas = append(pragmas, "_pragma=busy_timeout("+strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10)+")")
	}
	if c.ForeignKeys {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	}
	if c.JournalMode != "" {
		pragmas = append(pragmas, "_pragma=journal_mode("+strings.ToUpper(c.JournalMode)+")")
	}

	dsn := "file:" + c.FilePath()
	if len(pragmas) > 0 {
		dsn += "?" + strings.Join(pragmas, "&")
	}
	return dsn
}

// ParseConfig decodes YAML over DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, WrapError("parse config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError("load config", err)
	}
	return ParseConfig(data)
}
