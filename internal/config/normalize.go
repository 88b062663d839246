package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGemini()
	c.normalizeAudit()
	c.normalizeSnowflake()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGemini() {
	if c.Gemini.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Gemini.APIKey = value
		}
	}
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.Gemini.BaseURL = strings.TrimSpace(c.Gemini.BaseURL)
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = defaultGeminiBaseURL
	}
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = defaultGeminiTimeout
	}
}

func (c *Config) normalizeAudit() {
	if c.Audit.Concurrency <= 0 {
		c.Audit.Concurrency = defaultConcurrency
	}
	if c.Audit.PausePollMillis <= 0 {
		c.Audit.PausePollMillis = defaultPausePollMillis
	}
	c.Audit.UnknownSupplier = strings.TrimSpace(c.Audit.UnknownSupplier)
	if c.Audit.UnknownSupplier == "" {
		c.Audit.UnknownSupplier = defaultUnknownSupplier
	}
}

func (c *Config) normalizeSnowflake() {
	c.Snowflake.Account = strings.TrimSpace(c.Snowflake.Account)
	c.Snowflake.User = strings.TrimSpace(c.Snowflake.User)
	c.Snowflake.Warehouse = strings.TrimSpace(c.Snowflake.Warehouse)
	c.Snowflake.Database = strings.TrimSpace(c.Snowflake.Database)
	c.Snowflake.Schema = strings.TrimSpace(c.Snowflake.Schema)
	c.Snowflake.Table = strings.TrimSpace(c.Snowflake.Table)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
