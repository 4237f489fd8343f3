// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default bounds applied when the config file and flags leave them unset.
const (
	DefaultMaxRounds    = 15
	DefaultTurnTimeoutS = 300
	DefaultSearchLimit  = 10
	DefaultGeneratedDir = "generated"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Credentials
	APIKey       string `json:"api_key,omitempty"`        // Gemini API key (GEMINI_API_KEY)
	AdzunaAppID  string `json:"adzuna_app_id,omitempty"`  // Adzuna application id (ADZUNA_APP_ID)
	AdzunaAppKey string `json:"adzuna_app_key,omitempty"` // Adzuna application key (ADZUNA_APP_KEY)
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL URL for history records (DATABASE_URL)

	// Paths
	GeneratedDir string `json:"generated_dir,omitempty"` // Output directory for generated documents
	TemplateDir  string `json:"template_dir,omitempty"`  // Optional directory with HTML document templates

	// Turn budget
	MaxRounds   int `json:"max_rounds,omitempty"`   // Backend round-trips allowed per turn
	TurnTimeout int `json:"turn_timeout,omitempty"` // Wall-clock budget per turn, seconds

	// Behavior
	SearchLimit int  `json:"search_limit,omitempty"` // Default job search result count
	UseBrowser  bool `json:"use_browser,omitempty"`  // Headless browser fallback for SPA job pages
	Verbose     bool `json:"verbose,omitempty"`      // Debug logging
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills credential fields from environment variables when unset.
// Flags and config file values win over the environment.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.AdzunaAppID == "" {
		c.AdzunaAppID = os.Getenv("ADZUNA_APP_ID")
	}
	if c.AdzunaAppKey == "" {
		c.AdzunaAppKey = os.Getenv("ADZUNA_APP_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the configuration has valid values.
// Required fields are checked after merging, not here.
func (c *Config) Validate() error {
	if c.MaxRounds < 0 {
		return fmt.Errorf("config error: 'max_rounds' must be non-negative")
	}
	if c.TurnTimeout < 0 {
		return fmt.Errorf("config error: 'turn_timeout' must be non-negative")
	}
	if c.SearchLimit < 0 {
		return fmt.Errorf("config error: 'search_limit' must be non-negative")
	}

	if c.TemplateDir != "" {
		if _, err := os.Stat(c.TemplateDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: template directory not found: %s", c.TemplateDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.AdzunaAppID == "" {
		result.AdzunaAppID = defaults.AdzunaAppID
	}
	if result.AdzunaAppKey == "" {
		result.AdzunaAppKey = defaults.AdzunaAppKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeneratedDir == "" {
		result.GeneratedDir = defaults.GeneratedDir
	}
	if result.TemplateDir == "" {
		result.TemplateDir = defaults.TemplateDir
	}

	if result.MaxRounds == 0 {
		result.MaxRounds = defaults.MaxRounds
	}
	if result.TurnTimeout == 0 {
		result.TurnTimeout = defaults.TurnTimeout
	}
	if result.SearchLimit == 0 {
		result.SearchLimit = defaults.SearchLimit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyDefaults fills remaining zero-valued fields with package defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxRounds == 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.TurnTimeout == 0 {
		c.TurnTimeout = DefaultTurnTimeoutS
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = DefaultSearchLimit
	}
	if c.GeneratedDir == "" {
		c.GeneratedDir = DefaultGeneratedDir
	}
}
