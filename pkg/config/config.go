// Package config provides the configuration contract between the host
// pipeline and connectors. The host hands every connector a flat
// string-keyed options map; connectors parse and validate the keys they
// recognize at construction time and treat the result as immutable.
//
// Example usage:
//
//	cfg := config.New("redshift-source", "redshift")
//	cfg.Options["region"] = "us-east-1"
//	cfg.Options["database"] = "dev"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/redshift-connect/pkg/errors"
)

// Config is the configuration handed to a connector by the host pipeline.
// Options carries the flat string-keyed map from the host; typed accessors
// apply defaults and leniency rules so connectors parse keys uniformly.
type Config struct {
	// Name identifies the connector instance
	Name string `yaml:"name" json:"name"`
	// Type specifies the connector type (e.g., "redshift")
	Type string `yaml:"type" json:"type"`
	// Options is the flat string-keyed configuration map from the host
	Options map[string]string `yaml:"options" json:"options"`
}

// New creates a Config with an initialized options map.
func New(name, connectorType string) *Config {
	return &Config{
		Name:    name,
		Type:    connectorType,
		Options: make(map[string]string),
	}
}

// Validate checks the core identification fields. Connector-specific keys
// are validated by the connector itself during Initialize.
func (c *Config) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "name is required")
	}
	if c.Type == "" {
		return errors.New(errors.ErrorTypeConfig, "type is required")
	}
	return nil
}

// Get returns the option value for key, or the empty string when absent.
func (c *Config) Get(key string) string {
	if c.Options == nil {
		return ""
	}
	return c.Options[key]
}

// GetDefault returns the option value for key, or def when absent or empty.
func (c *Config) GetDefault(key, def string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return def
}

// GetInt returns the option parsed as an integer, or def when the option is
// absent or not numeric. The leniency matches the host contract: a malformed
// numeric option falls back to the default rather than failing.
func (c *Config) GetInt(key string, def int) int {
	v := c.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// GetSeconds returns the option parsed as a whole number of seconds, or def
// when the option is absent or not numeric.
func (c *Config) GetSeconds(key string, def time.Duration) time.Duration {
	v := c.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return time.Duration(n) * time.Second
}

// GetList returns the option split on commas with whitespace trimmed and
// empty entries dropped. An absent or blank option yields nil, meaning no
// restriction.
func (c *Config) GetList(key string) []string {
	v := c.Get(key)
	if strings.TrimSpace(v) == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Has reports whether the option key is present and non-empty.
func (c *Config) Has(key string) bool {
	return c.Get(key) != ""
}
