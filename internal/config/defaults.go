package config

const (
	defaultDataDir         = "~/.local/share/pairaudit"
	defaultLogDir          = "~/.local/share/pairaudit/logs"
	defaultExportDir       = "~/.local/share/pairaudit/exports"
	defaultGeminiBaseURL   = "https://generativelanguage.googleapis.com"
	defaultGeminiModel     = "gemini-3-flash-preview"
	defaultGeminiTimeout   = 120
	defaultConcurrency     = 3
	defaultPausePollMillis = 500
	defaultUnknownSupplier = "Unknown Supplier"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeout,
		},
		Audit: Audit{
			Concurrency:     defaultConcurrency,
			PausePollMillis: defaultPausePollMillis,
			UnknownSupplier: defaultUnknownSupplier,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
