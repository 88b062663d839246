// Package results persists finished audit batches to SQLite so verdicts
// survive the process and can be listed and exported later.
package results
