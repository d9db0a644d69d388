// Package config loads pipeline settings from files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/charta-io/charta/extract"
)

const (
	DefaultMaxPages = 10
	DefaultDPI      = 200
	DefaultLanguage = "eng"

	minDPI = 72
	maxDPI = 600
)

// Config holds all settings for a document-processing run.
type Config struct {
	// MaxPages caps how many PDF pages are rasterized and processed.
	MaxPages int

	// DPI is the rasterization quality hint passed to the renderer.
	DPI int

	// Language is the OCR language code (e.g. "eng", "eng+fra").
	Language string

	// Preprocess enables image preprocessing before OCR.
	Preprocess bool

	// Deskew enables rotation correction during preprocessing.
	Deskew bool

	// Visualize enables the per-page OCR overlay artifact.
	Visualize bool

	// RulesPath optionally points at a JSON file of custom extraction
	// rules (field name to pattern list).
	RulesPath string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxPages:   DefaultMaxPages,
		DPI:        DefaultDPI,
		Language:   DefaultLanguage,
		Preprocess: true,
		Deskew:     false,
		Visualize:  true,
	}
}

// Load reads configuration from the given file (JSON, YAML, or TOML,
// chosen by extension) layered over defaults and CHARTA_* environment
// variables. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("CHARTA")
	v.AutomaticEnv()

	v.SetDefault("max_pages", cfg.MaxPages)
	v.SetDefault("dpi", cfg.DPI)
	v.SetDefault("language", cfg.Language)
	v.SetDefault("preprocess", cfg.Preprocess)
	v.SetDefault("deskew", cfg.Deskew)
	v.SetDefault("visualize", cfg.Visualize)
	v.SetDefault("rules_path", cfg.RulesPath)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.MaxPages = v.GetInt("max_pages")
	cfg.DPI = v.GetInt("dpi")
	cfg.Language = v.GetString("language")
	cfg.Preprocess = v.GetBool("preprocess")
	cfg.Deskew = v.GetBool("deskew")
	cfg.Visualize = v.GetBool("visualize")
	cfg.RulesPath = v.GetString("rules_path")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxPages < 1 {
		return errors.New("max_pages must be at least 1")
	}
	if c.DPI < minDPI || c.DPI > maxDPI {
		return fmt.Errorf("dpi must be between %d and %d", minDPI, maxDPI)
	}
	if c.Language == "" {
		return errors.New("language cannot be empty")
	}
	return nil
}

// Rules loads the custom rule set referenced by RulesPath. Returns an
// empty rule set when no path is configured. Malformed entries inside the
// file are dropped, not rejected; only an unreadable file is an error.
func (c *Config) Rules() (extract.RuleSet, error) {
	if c.RulesPath == "" {
		return extract.RuleSet{}, nil
	}
	data, err := os.ReadFile(c.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return extract.ParseRuleSet(data), nil
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{MaxPages: %d, DPI: %d, Language: %s, Preprocess: %t, Deskew: %t, Visualize: %t, RulesPath: %s}",
		c.MaxPages, c.DPI, c.Language, c.Preprocess, c.Deskew, c.Visualize, c.RulesPath)
}
