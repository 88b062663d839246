package snowflake_test

import (
	"strings"
	"testing"

	"pairaudit/internal/config"
	"pairaudit/internal/snowflake"
)

func validConnection() config.Snowflake {
	return config.Snowflake{
		Account:   "xy12345.us-east-1",
		User:      "auditor",
		Password:  "secret",
		Warehouse: "COMPUTE_WH",
		Database:  "DB",
		Schema:    "PUBLIC",
		Table:     "SUPPLIER_PAIRS",
	}
}

func TestValidateConnectionReportsMissingFields(t *testing.T) {
	cfg := validConnection()
	cfg.Account = ""
	cfg.Table = ""

	err := snowflake.ValidateConnection(cfg)
	if err == nil {
		t.Fatal("expected error for incomplete connection")
	}
	if !strings.Contains(err.Error(), "snowflake.account") || !strings.Contains(err.Error(), "snowflake.table") {
		t.Fatalf("expected both missing fields named, got %v", err)
	}
}

func TestTargetTableDefaultsSchema(t *testing.T) {
	cfg := validConnection()
	cfg.Schema = ""
	if got := snowflake.TargetTable(cfg); got != "DB.PUBLIC.SUPPLIER_PAIRS" {
		t.Fatalf("unexpected target table %q", got)
	}
}

func TestRowsMatchIngestShape(t *testing.T) {
	rows, err := snowflake.Rows(validConnection())
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected sample rows")
	}
	for i, row := range rows {
		a, ok := row.Lookup("ls supplier name", "ls name", "supplier ls", "ls")
		if !ok || a == "" {
			t.Fatalf("row %d: missing LS supplier", i)
		}
		b, ok := row.Lookup("dbm supplier name", "dbm name", "supplier dbm", "dbm")
		if !ok || b == "" {
			t.Fatalf("row %d: missing DBM supplier", i)
		}
	}
}

func TestRowsRejectIncompleteConnection(t *testing.T) {
	if _, err := snowflake.Rows(config.Snowflake{}); err == nil {
		t.Fatal("expected error for empty connection")
	}
}
