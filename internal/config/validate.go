package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
	logFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %v (got %q)", logLevels, c.Log.Level)
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be one of %v (got %q)", logFormats, c.Log.Format)
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if c.Publish.Timeout <= 0 {
		return fmt.Errorf("publish.timeout must be > 0 (got %v)", c.Publish.Timeout)
	}

	if q := c.Export.BrotliQuality; q < 0 || q > 11 {
		return fmt.Errorf("export.brotli_quality must be 0..11 (got %d)", q)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be within 0..max_conns (got %d)", d.MinConns)
	}
	return nil
}

// RequireDSN reports an error when no database DSN is configured. Commands
// that talk to PostgreSQL call it before connecting.
func (d DatabaseConfig) RequireDSN() error {
	if strings.TrimSpace(d.DSN) == "" {
		return errors.New("database.dsn is required (set DATABASE_DSN)")
	}
	return nil
}
