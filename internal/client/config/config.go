package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the stockkeeper CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - RequestTimeout: upper bound for a single API call.
//   - ExportDir: directory (relative to the working directory) for CSV downloads.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	ExportDir      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8084"
	c.RequestTimeout = 10 * time.Second
	c.ExportDir = "exports"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive")
	}
	return cfg, nil
}
