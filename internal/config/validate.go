package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAudit(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateGemini checks the oracle connection settings. It is called by
// commands that actually talk to the API, so read-only commands keep working
// without a key.
func (c *Config) ValidateGemini() error {
	if c.Gemini.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/pairaudit/config.toml"
		}
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'pairaudit config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateAudit() error {
	if c.Audit.Concurrency < 1 {
		return errors.New("audit.concurrency must be at least 1")
	}
	if c.Audit.Concurrency > 32 {
		return errors.New("audit.concurrency must be 32 or less")
	}
	if c.Audit.PausePollMillis < 10 {
		return errors.New("audit.pause_poll_ms must be at least 10")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
