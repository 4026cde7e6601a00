package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/spicecat/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/clerk")
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/home/clerk/.local/share/spicecat/spicecat.db", cfg.DatabasePath)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, "Miscellaneous", cfg.Miscellaneous)
	assert.Equal(t, "learned_patterns", cfg.BlobKey)
	assert.Equal(t, 3, cfg.Limit)
	assert.True(t, cfg.AutoLearn)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  path: ` + filepath.Join(dir, "db.sqlite") + `
engine:
  miscellaneous: Other
  limit: 5
logging:
  level: DEBUG
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	v.Set(KeyBlobKey, "  custom_key ")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db.sqlite"), cfg.DatabasePath)
	assert.Equal(t, "Other", cfg.Miscellaneous)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, "custom_key", cfg.BlobKey)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabasePath:  "/tmp/spicecat.db",
			Miscellaneous: "Miscellaneous",
			BlobKey:       "learned_patterns",
			LogLevel:      "info",
			LogFormat:     "console",
			Limit:         3,
		}
	}

	tests := []struct {
		mutate  func(*Config)
		name    string
		wantMsg []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory database", mutate: func(c *Config) { c.DatabasePath = ":memory:" }},
		{name: "limit upper bound", mutate: func(c *Config) { c.Limit = MaxSuggestionSize }},
		{
			name:    "zero limit",
			mutate:  func(c *Config) { c.Limit = 0 },
			wantMsg: []string{"invalid suggestion limit 0"},
		},
		{
			name:    "limit too large",
			mutate:  func(c *Config) { c.Limit = 21 },
			wantMsg: []string{"invalid suggestion limit 21"},
		},
		{
			name: "accumulates problems",
			mutate: func(c *Config) {
				c.DatabasePath = ""
				c.Miscellaneous = ""
				c.BlobKey = ""
				c.LogLevel = "loud"
				c.LogFormat = "xml"
			},
			wantMsg: []string{
				"database path cannot be empty",
				"miscellaneous category name cannot be empty",
				"blob key cannot be empty",
				`invalid log level "loud"`,
				`invalid log format "xml"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if len(tt.wantMsg) == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrInvalidConfig)
			for _, msg := range tt.wantMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPICECAT_TEST_DIR", "/srv/data")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/spicecat.db", filepath.Join(home, "spicecat.db")},
		{"$SPICECAT_TEST_DIR/spicecat.db", "/srv/data/spicecat.db"},
		{"/abs/path.db", "/abs/path.db"},
		{":memory:", ":memory:"},
		{"/srv//spicecat/../spicecat.db", "/srv/spicecat.db"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
