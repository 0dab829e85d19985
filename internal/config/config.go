// Package config loads the YAML application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// DatabasePath is the SQLite file path. Empty selects the in-memory
	// store, which loses data on restart.
	DatabasePath string `yaml:"database_path"`

	// OwnerName is the congregation's display name; it feeds export UIDs
	// and the download filename.
	OwnerName string `yaml:"owner_name"`

	// CalendarName is the display name embedded in exported documents.
	CalendarName string `yaml:"calendar_name"`

	// UpcomingDays is the window size for upcoming projections and the
	// reminder digest.
	UpcomingDays int `yaml:"upcoming_days"`

	// DigestCron is a cron-style schedule for the reminder digest.
	// Empty disables the digest.
	DigestCron string `yaml:"digest_cron"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		OwnerName:    "Grace Church",
		CalendarName: "Church Calendar",
		UpcomingDays: 30,
		DigestCron:   "0 7 * * *",
	}
}

// Normalize fills missing values with defaults so partially-filled
// configs behave correctly.
func (c *Config) Normalize() {
	d := Default()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.OwnerName == "" {
		c.OwnerName = d.OwnerName
	}
	if c.CalendarName == "" {
		c.CalendarName = d.CalendarName
	}
	if c.UpcomingDays <= 0 {
		c.UpcomingDays = d.UpcomingDays
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults rather than an error, so a bare binary still starts.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.Normalize()
	return &c, nil
}
