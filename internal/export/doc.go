// Package export writes audit results to CSV with a fixed column layout.
package export
