package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"pairaudit/internal/audit"
)

// Header is the fixed export column layout.
var Header = []string{
	"ID",
	"LS Supplier Name",
	"DBM Supplier Name",
	"Match",
	"LS Industry",
	"DBM Industry",
	"Reasoning",
}

// WriteItems serializes items as CSV. By default only completed items are
// written; includeAll also emits errored and unfinished items, carrying the
// error message in the reasoning column so nothing is silently lost.
func WriteItems(w io.Writer, items []audit.Item, includeAll bool) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, item := range items {
		if !includeAll && item.Status != audit.StatusCompleted {
			continue
		}
		if err := writer.Write(record(item)); err != nil {
			return fmt.Errorf("write row %s: %w", item.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFile writes items to path, creating parent directories as needed.
func WriteFile(path string, items []audit.Item, includeAll bool) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := WriteItems(file, items, includeAll); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// DefaultFilename returns a timestamped export name under dir.
func DefaultFilename(dir string, now time.Time) string {
	name := fmt.Sprintf("supplier-audit-%s.csv", now.UTC().Format("20060102-150405"))
	return filepath.Join(dir, name)
}

func record(item audit.Item) []string {
	matchFlag := "No"
	if item.Status == audit.StatusCompleted && item.IsMatch {
		matchFlag = "Yes"
	}
	reasoning := item.Reasoning
	if item.Status == audit.StatusError && reasoning == "" {
		reasoning = item.ErrorMessage
	}
	return []string{
		item.ID,
		item.SupplierA,
		item.SupplierB,
		matchFlag,
		item.SectorA,
		item.SectorB,
		reasoning,
	}
}
