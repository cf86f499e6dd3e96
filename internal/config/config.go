/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/friendsincode/grimnir_rotation/internal/rotation"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string

	// Media catalog used to resolve and extend queues. Optional.
	DBBackend DatabaseBackend
	DBDSN     string
	StationID string

	// Rotation thresholds
	RotationWindow time.Duration
	ArtistCap      int
	AlbumCap       int
	ArtistRunCap   int
	AlbumRunCap    int
	RulesFile      string // optional YAML overlay for the thresholds above

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64

	// MetricsTextfile is where run metrics are written in Prometheus text
	// format for a node exporter textfile collector. Empty disables it.
	MetricsTextfile string

	LegacyEnvWarnings []string
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	defaults := rotation.DefaultRules()
	cfg := &Config{
		Environment: getEnvAny([]string{"GRIMNIR_ENV", "ROTATION_ENV"}, "development"),
		DBBackend:   DatabaseBackend(getEnvAny([]string{"GRIMNIR_DB_BACKEND", "ROTATION_DB_BACKEND"}, string(DatabaseSQLite))),
		DBDSN:       getEnvAny([]string{"GRIMNIR_DB_DSN", "ROTATION_DB_DSN"}, ""),
		StationID:   getEnvAny([]string{"GRIMNIR_STATION_ID", "ROTATION_STATION_ID"}, ""),

		RotationWindow: time.Duration(getEnvIntAny([]string{"GRIMNIR_ROTATION_WINDOW_MINUTES", "ROTATION_WINDOW_MINUTES"}, int(defaults.Window()/time.Minute))) * time.Minute,
		ArtistCap:      getEnvIntAny([]string{"GRIMNIR_ROTATION_ARTIST_CAP", "ROTATION_ARTIST_CAP"}, defaults.ArtistCap),
		AlbumCap:       getEnvIntAny([]string{"GRIMNIR_ROTATION_ALBUM_CAP", "ROTATION_ALBUM_CAP"}, defaults.AlbumCap),
		ArtistRunCap:   getEnvIntAny([]string{"GRIMNIR_ROTATION_ARTIST_RUN_CAP", "ROTATION_ARTIST_RUN_CAP"}, defaults.ArtistRunCap),
		AlbumRunCap:    getEnvIntAny([]string{"GRIMNIR_ROTATION_ALBUM_RUN_CAP", "ROTATION_ALBUM_RUN_CAP"}, defaults.AlbumRunCap),
		RulesFile:      getEnvAny([]string{"GRIMNIR_ROTATION_RULES_FILE", "ROTATION_RULES_FILE"}, ""),

		// Tracing configuration
		TracingEnabled:    getEnvBoolAny([]string{"GRIMNIR_TRACING_ENABLED", "ROTATION_TRACING_ENABLED"}, false),
		OTLPEndpoint:      getEnvAny([]string{"GRIMNIR_OTLP_ENDPOINT", "ROTATION_OTLP_ENDPOINT"}, "localhost:4317"),
		TracingSampleRate: getEnvFloatAny([]string{"GRIMNIR_TRACING_SAMPLE_RATE", "ROTATION_TRACING_SAMPLE_RATE"}, 1.0),

		MetricsTextfile: getEnvAny([]string{"GRIMNIR_METRICS_TEXTFILE", "ROTATION_METRICS_TEXTFILE"}, ""),
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.RulesFile != "" {
		if err := cfg.applyRulesFile(cfg.RulesFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Rules().Validate(); err != nil {
		return nil, fmt.Errorf("invalid rotation rules: %w", err)
	}

	if cfg.TracingSampleRate < 0 || cfg.TracingSampleRate > 1 {
		return nil, fmt.Errorf("GRIMNIR_TRACING_SAMPLE_RATE must be between 0 and 1, got %v", cfg.TracingSampleRate)
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()

	return cfg, nil
}

// rulesFile mirrors the YAML overlay. Zero values leave the environment
// setting in place.
type rulesFile struct {
	WindowMinutes int `yaml:"window_minutes"`
	ArtistCap     int `yaml:"artist_cap"`
	AlbumCap      int `yaml:"album_cap"`
	ArtistRunCap  int `yaml:"artist_run_cap"`
	AlbumRunCap   int `yaml:"album_run_cap"`
}

func (c *Config) applyRulesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if rf.WindowMinutes != 0 {
		c.RotationWindow = time.Duration(rf.WindowMinutes) * time.Minute
	}
	if rf.ArtistCap != 0 {
		c.ArtistCap = rf.ArtistCap
	}
	if rf.AlbumCap != 0 {
		c.AlbumCap = rf.AlbumCap
	}
	if rf.ArtistRunCap != 0 {
		c.ArtistRunCap = rf.ArtistRunCap
	}
	if rf.AlbumRunCap != 0 {
		c.AlbumRunCap = rf.AlbumRunCap
	}
	return nil
}

// Rules returns the rotation thresholds.
func (c *Config) Rules() rotation.Rules {
	return rotation.Rules{
		WindowMS:     c.RotationWindow.Milliseconds(),
		ArtistCap:    c.ArtistCap,
		AlbumCap:     c.AlbumCap,
		ArtistRunCap: c.ArtistRunCap,
		AlbumRunCap:  c.AlbumRunCap,
	}
}

// CatalogConfigured reports whether a media catalog database is available.
func (c *Config) CatalogConfigured() bool {
	return c != nil && c.DBDSN != ""
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"ENVIRONMENT":         "use GRIMNIR_ENV (or ROTATION_ENV)",
		"ROTATION_WINDOW":     "use GRIMNIR_ROTATION_WINDOW_MINUTES (or ROTATION_WINDOW_MINUTES)",
		"TRACING_ENABLED":     "use GRIMNIR_TRACING_ENABLED (or ROTATION_TRACING_ENABLED)",
		"OTLP_ENDPOINT":       "use GRIMNIR_OTLP_ENDPOINT (or ROTATION_OTLP_ENDPOINT)",
		"TRACING_SAMPLE_RATE": "use GRIMNIR_TRACING_SAMPLE_RATE (or ROTATION_TRACING_SAMPLE_RATE)",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}

// getEnvAny returns the first non-empty environment variable value from keys, or def if none set.
func getEnvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

// getEnvIntAny returns the first set integer environment variable value from keys, or def.
func getEnvIntAny(keys []string, def int) int {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return def
}

// getEnvBoolAny returns the first set boolean environment variable value from keys, or def.
func getEnvBoolAny(keys []string, def bool) bool {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
			if v == "false" || v == "0" || v == "no" {
				return false
			}
		}
	}
	return def
}

// getEnvFloatAny returns the first set float environment variable value from keys, or def.
func getEnvFloatAny(keys []string, def float64) float64 {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return def
}
