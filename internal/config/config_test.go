package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name: "Valid config",
			content: `{
				"api_key": "test-key",
				"max_rounds": 10,
				"turn_timeout": 120,
				"search_limit": 5,
				"generated_dir": "out"
			}`,
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "test-key", cfg.APIKey)
				assert.Equal(t, 10, cfg.MaxRounds)
				assert.Equal(t, 120, cfg.TurnTimeout)
				assert.Equal(t, 5, cfg.SearchLimit)
				assert.Equal(t, "out", cfg.GeneratedDir)
			},
		},
		{
			name:      "Invalid JSON",
			content:   `{not json}`,
			wantError: true,
		},
		{
			name:      "Empty object",
			content:   `{}`,
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.APIKey)
				assert.Zero(t, cfg.MaxRounds)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			cfg, err := LoadConfig(path)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantError bool
	}{
		{name: "Defaults are valid", cfg: Config{}},
		{name: "Negative rounds", cfg: Config{MaxRounds: -1}, wantError: true},
		{name: "Negative timeout", cfg: Config{TurnTimeout: -5}, wantError: true},
		{name: "Negative search limit", cfg: Config{SearchLimit: -1}, wantError: true},
		{name: "Missing template dir", cfg: Config{TemplateDir: "/no/such/dir"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	flags := Config{APIKey: "flag-key", MaxRounds: 5}
	defaults := Config{APIKey: "file-key", DatabaseURL: "postgres://x", MaxRounds: 12, SearchLimit: 7}

	merged := flags.MergeWithDefaults(defaults)

	assert.Equal(t, "flag-key", merged.APIKey, "explicit value wins")
	assert.Equal(t, "postgres://x", merged.DatabaseURL, "default fills empty")
	assert.Equal(t, 5, merged.MaxRounds)
	assert.Equal(t, 7, merged.SearchLimit)
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultMaxRounds, cfg.MaxRounds)
	assert.Equal(t, DefaultTurnTimeoutS, cfg.TurnTimeout)
	assert.Equal(t, DefaultSearchLimit, cfg.SearchLimit)
	assert.Equal(t, DefaultGeneratedDir, cfg.GeneratedDir)
}
