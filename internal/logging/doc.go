// Package logging assembles structured slog loggers and formatting helpers
// used across pairaudit.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so command and audit code emit log
// lines with a consistent shape. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
