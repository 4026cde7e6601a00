// Package config resolves spicecat settings from files, environment and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/spicecat/internal/common"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath   = "database.path"
	KeyCatalogPath    = "catalog.path"
	KeyMiscellaneous  = "engine.miscellaneous"
	KeyLimit          = "engine.limit"
	KeyBlobKey        = "engine.blob_key"
	KeyAutoLearn      = "engine.auto_learn"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
)

// MaxSuggestionSize bounds engine.limit.
const MaxSuggestionSize = 20

// Config holds the resolved application settings.
type Config struct {
	DatabasePath  string
	CatalogPath   string
	Miscellaneous string
	BlobKey       string
	LogLevel      string
	LogFormat     string
	Limit         int
	AutoLearn     bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, "$HOME/.local/share/spicecat/spicecat.db")
	v.SetDefault(KeyCatalogPath, "")
	v.SetDefault(KeyMiscellaneous, "Miscellaneous")
	v.SetDefault(KeyLimit, 3)
	v.SetDefault(KeyBlobKey, "learned_patterns")
	v.SetDefault(KeyAutoLearn, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads settings from v, expanding paths, and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath:  ExpandPath(strings.TrimSpace(v.GetString(KeyDatabasePath))),
		CatalogPath:   ExpandPath(strings.TrimSpace(v.GetString(KeyCatalogPath))),
		Miscellaneous: strings.TrimSpace(v.GetString(KeyMiscellaneous)),
		BlobKey:       strings.TrimSpace(v.GetString(KeyBlobKey)),
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:     strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		Limit:         v.GetInt(KeyLimit),
		AutoLearn:     v.GetBool(KeyAutoLearn),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if c.DatabasePath == "" {
		problems = append(problems, "database path cannot be empty")
	} else if c.DatabasePath != ":memory:" && filepath.Base(c.DatabasePath) == "." {
		problems = append(problems, fmt.Sprintf("database path %q does not name a file", c.DatabasePath))
	}

	if c.Miscellaneous == "" {
		problems = append(problems, "miscellaneous category name cannot be empty")
	}

	if c.BlobKey == "" {
		problems = append(problems, "learned pattern blob key cannot be empty")
	}

	if c.Limit < 1 || c.Limit > MaxSuggestionSize {
		problems = append(problems, fmt.Sprintf("invalid suggestion limit %d: must be between 1 and %d", c.Limit, MaxSuggestionSize))
	}

	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel))
	}

	switch c.LogFormat {
	case "console", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be console or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", common.ErrInvalidConfig, strings.Join(problems, "\n- "))
	}
	return nil
}

// ExpandPath expands a leading ~ and $VAR references in a file path. The
// SQLite in-memory name is returned untouched.
func ExpandPath(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}
