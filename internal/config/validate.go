package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.BaseURL == "" {
		return errors.New("scan.base_url must be set")
	}
	parsed, err := url.Parse(c.Scan.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("scan.base_url is not a valid absolute URL: %q", c.Scan.BaseURL)
	}
	for name, window := range map[string]int{
		"scan.window_tagesschau":   c.Scan.WindowTagesschau,
		"scan.window_tagesthemen":  c.Scan.WindowTagesthemen,
		"scan.window_nachtmagazin": c.Scan.WindowNachtmagazin,
	} {
		if window < 2 {
			return fmt.Errorf("%s must be at least 2", name)
		}
	}
	if c.Scan.RequestTimeout <= 0 {
		return errors.New("scan.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
