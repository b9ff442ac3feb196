// Package config loads analysis and server settings from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AnalysisConfig holds optional overrides for analysis and server defaults.
// All fields are pointers so a partial config file only overrides what it
// names; nil fields fall back to the built-in defaults in Resolve.
type AnalysisConfig struct {
	// BufferM is the default buffer distance around the profile line, in
	// the line's planar units.
	BufferM *float64 `json:"buffer_m,omitempty"`

	// DebounceDelay coalesces rapid re-analysis requests, as a duration
	// string like "250ms".
	DebounceDelay *string `json:"debounce_delay,omitempty"`

	// DBPath is the location of the runs database.
	DBPath *string `json:"db_path,omitempty"`

	// Listen is the HTTP listen address.
	Listen *string `json:"listen,omitempty"`

	// MigrationsDir is the directory holding schema migration files.
	MigrationsDir *string `json:"migrations_dir,omitempty"`
}

// Settings are fully resolved values with defaults applied.
type Settings struct {
	BufferM       float64
	DebounceDelay time.Duration
	DBPath        string
	Listen        string
	MigrationsDir string
}

// Built-in defaults, used when a field is absent from the config file or no
// config file is given.
const (
	DefaultBufferM       = 5.0
	DefaultDebounceDelay = 250 * time.Millisecond
	DefaultDBPath        = "terrain_runs.db"
	DefaultListen        = ":8080"
	DefaultMigrationsDir = "db/migrations"
)

// Load reads an AnalysisConfig from a JSON file. The file must have a .json
// extension and be under 1MB. Fields omitted from the file stay nil.
func Load(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AnalysisConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that present values are usable.
func (c *AnalysisConfig) Validate() error {
	if c.BufferM != nil && *c.BufferM <= 0 {
		return fmt.Errorf("buffer_m must be positive, got %f", *c.BufferM)
	}
	if c.DebounceDelay != nil {
		d, err := time.ParseDuration(*c.DebounceDelay)
		if err != nil {
			return fmt.Errorf("debounce_delay: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("debounce_delay must not be negative, got %s", d)
		}
	}
	if c.Listen != nil && *c.Listen == "" {
		return fmt.Errorf("listen must not be empty when set")
	}
	return nil
}

// Resolve applies built-in defaults to any nil field. Safe to call on a nil
// receiver, which yields all defaults.
func (c *AnalysisConfig) Resolve() Settings {
	s := Settings{
		BufferM:       DefaultBufferM,
		DebounceDelay: DefaultDebounceDelay,
		DBPath:        DefaultDBPath,
		Listen:        DefaultListen,
		MigrationsDir: DefaultMigrationsDir,
	}
	if c == nil {
		return s
	}
	if c.BufferM != nil {
		s.BufferM = *c.BufferM
	}
	if c.DebounceDelay != nil {
		// Validate guarantees this parses.
		if d, err := time.ParseDuration(*c.DebounceDelay); err == nil {
			s.DebounceDelay = d
		}
	}
	if c.DBPath != nil {
		s.DBPath = *c.DBPath
	}
	if c.Listen != nil {
		s.Listen = *c.Listen
	}
	if c.MigrationsDir != nil {
		s.MigrationsDir = *c.MigrationsDir
	}
	return s
}
