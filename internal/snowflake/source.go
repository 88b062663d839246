// Package snowflake accepts warehouse connection settings and produces rows
// in the same shape as CSV ingestion. The connection itself is a placeholder:
// the transport is not dialed, and the source yields a fixed sample row set
// so the audit path can be exercised end to end.
package snowflake

import (
	"errors"
	"fmt"
	"strings"

	"pairaudit/internal/config"
	"pairaudit/internal/ingest"
)

// ValidateConnection checks that the configured connection shape is complete
// enough to identify a target table. It does not reach the network.
func ValidateConnection(cfg config.Snowflake) error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"snowflake.account", cfg.Account},
		{"snowflake.user", cfg.User},
		{"snowflake.warehouse", cfg.Warehouse},
		{"snowflake.database", cfg.Database},
		{"snowflake.table", cfg.Table},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("snowflake connection incomplete: %s must be set", strings.Join(missing, ", "))
	}
	return nil
}

// TargetTable renders the fully qualified table name from the connection shape.
func TargetTable(cfg config.Snowflake) string {
	schema := cfg.Schema
	if schema == "" {
		schema = "PUBLIC"
	}
	return fmt.Sprintf("%s.%s.%s", cfg.Database, schema, cfg.Table)
}

// Rows returns the placeholder row set for a validated connection.
func Rows(cfg config.Snowflake) ([]ingest.Row, error) {
	if err := ValidateConnection(cfg); err != nil {
		return nil, err
	}
	rows := sampleRows()
	if len(rows) == 0 {
		return nil, errors.New("snowflake source returned no rows")
	}
	return rows, nil
}

func sampleRows() []ingest.Row {
	header := []string{"LS Supplier Name", "DBM Supplier Name", "Address", "Email", "Needs for Review"}
	records := [][]string{
		{"MetalFlow Industries", "MetalFlow Ltd", "123 Steel Road, Ohio", "info@metalflow.com", "No"},
		{"Urban Threads Co", "Urban Fashion", "456 Silk Ave, NY", "sales@urbanthreads.com", "No"},
		{"Global Logistics", "Global Freight Partners", "789 Port Way, FL", "contact@global.logistics", "No"},
		{"Tech Solutions Inc", "Tech Solv", "101 Silicon Valley, CA", "hi@techsolve.io", "No"},
		{"Green Energy Corp", "Green Power", "202 Eco Blvd, WA", "support@greenpower.com", "No"},
	}
	rows := make([]ingest.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, ingest.NewRow(header, record))
	}
	return rows
}
