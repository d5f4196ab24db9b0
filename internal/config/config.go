// Package config provides configuration loading and validation for the
// oneclick binary: an optional JSON file for CLI defaults, environment
// overrides for the server, and the JWT and password hashing settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/oneclickresume/internal/rendering"
)

// DefaultPort is the HTTP port used when neither flag, file nor PORT set one.
const DefaultPort = 8080

// Config represents the settings that can be loaded from a JSON file.
// All fields are optional; missing values fall back to the environment,
// CLI flags or built-in defaults.
type Config struct {
	// Rendering
	Input    string `json:"input,omitempty"`    // Path to a resume_data JSON file
	Template string `json:"template,omitempty"` // Template id: classic, modern, minimal, creative
	OutDir   string `json:"out_dir,omitempty"`  // Directory for rendered/exported files

	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Builder session store; memory when empty

	// Export
	ChromePath   string `json:"chrome_path,omitempty"`   // Chrome/Chromium binary for PDF export
	ExportBucket string `json:"export_bucket,omitempty"` // S3 bucket archiving exported PDFs
	ExportPrefix string `json:"export_prefix,omitempty"` // Key prefix inside ExportBucket

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
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

// FromEnv returns a Config populated from PORT, DATABASE_URL, REDIS_URL,
// CHROME_PATH, EXPORT_S3_BUCKET and EXPORT_S3_PREFIX.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		ChromePath:   os.Getenv("CHROME_PATH"),
		ExportBucket: os.Getenv("EXPORT_S3_BUCKET"),
		ExportPrefix: os.Getenv("EXPORT_S3_PREFIX"),
	}

	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are checked by the command that needs them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	if c.Template != "" {
		if _, err := rendering.Lookup(c.Template); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	if c.ExportPrefix != "" && c.ExportBucket == "" {
		return fmt.Errorf("config error: 'export_prefix' requires 'export_bucket'")
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from
// defaults. Bools are left alone since unset and false look the same.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Input, defaults.Input)
	fill(&result.Template, defaults.Template)
	fill(&result.OutDir, defaults.OutDir)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.RedisURL, defaults.RedisURL)
	fill(&result.ChromePath, defaults.ChromePath)
	fill(&result.ExportBucket, defaults.ExportBucket)
	fill(&result.ExportPrefix, defaults.ExportPrefix)

	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}

// Resolve layers the environment over an optional JSON file: values set in
// the environment win, file values fill the rest, and the port falls back to
// DefaultPort.
func Resolve(path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	file := Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		file = *loaded
	}

	merged := env.MergeWithDefaults(file)
	if merged.Port == 0 {
		merged.Port = DefaultPort
	}
	merged.Verbose = file.Verbose

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
