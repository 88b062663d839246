package ingest_test

import (
	"errors"
	"strings"
	"testing"

	"pairaudit/internal/ingest"
)

func TestDecodeCSVBasic(t *testing.T) {
	input := "LS Supplier Name,DBM Supplier Name,Address\nAcme Co,Acme Corp,\"123 Main St, Ohio\"\nFoo,Bar,\n"

	rows, err := ingest.DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[0].Get("Address"); got != "123 Main St, Ohio" {
		t.Fatalf("expected embedded comma preserved, got %q", got)
	}
	if got := rows[1].Get("LS Supplier Name"); got != "Foo" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestDecodeCSVWindowsLineEndings(t *testing.T) {
	input := "LS Name,DBM Name\r\nAcme,Acme Corp\r\n"

	rows, err := ingest.DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeCSV failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if got := rows[0].Get("DBM Name"); got != "Acme Corp" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestDecodeCSVSkipsBlankLines(t *testing.T) {
	input := "A,B\n1,2\n,\n3,4\n"

	rows, err := ingest.DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank record skipped, got %d rows", len(rows))
	}
}

func TestDecodeCSVShortRecordPadded(t *testing.T) {
	input := "A,B,C\n1,2\n"

	rows, err := ingest.DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeCSV failed: %v", err)
	}
	if got := rows[0].Get("C"); got != "" {
		t.Fatalf("expected padded empty value, got %q", got)
	}
}

func TestDecodeCSVEmptyInput(t *testing.T) {
	_, err := ingest.DecodeCSV(strings.NewReader(""))
	if !errors.Is(err, ingest.ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestDecodeCSVHeaderOnly(t *testing.T) {
	_, err := ingest.DecodeCSV(strings.NewReader("A,B\n"))
	if !errors.Is(err, ingest.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestLookupExactMatchWinsOverFuzzy(t *testing.T) {
	row := ingest.NewRow(
		[]string{"Supplier LS Extra", "LS Name"},
		[]string{"fuzzy-value", "exact-value"},
	)

	value, ok := row.Lookup("ls name", "ls")
	if !ok || value != "exact-value" {
		t.Fatalf("expected exact match to win, got %q ok=%v", value, ok)
	}
}

func TestLookupHeaderVariantsYieldSameValue(t *testing.T) {
	variants := []string{"ls supplier name", "ls name", "supplier ls", "ls"}
	headers := []string{"LS Supplier Name", "ls_supplier_name", " LS NAME ", "Supplier (LS)"}

	for _, header := range headers {
		row := ingest.NewRow([]string{header}, []string{"Acme"})
		value, ok := row.Lookup(variants...)
		if !ok || value != "Acme" {
			t.Fatalf("header %q: expected Acme, got %q ok=%v", header, value, ok)
		}
	}
}

func TestLookupFuzzyTrimsValue(t *testing.T) {
	row := ingest.NewRow([]string{"Supplier_LS_Name"}, []string{"  Acme  "})

	value, ok := row.Lookup("ls supplier name", "ls name", "supplier ls", "ls")
	if !ok {
		t.Fatal("expected fuzzy header match")
	}
	if value != "Acme" {
		t.Fatalf("expected trimmed value, got %q", value)
	}
}

func TestLookupEmptyValueIsAbsent(t *testing.T) {
	row := ingest.NewRow(
		[]string{"LS Name", "LS Supplier Name"},
		[]string{"", "Fallback Co"},
	)

	value, ok := row.Lookup("ls name", "ls supplier name")
	if !ok || value != "Fallback Co" {
		t.Fatalf("expected empty value skipped in favor of later variant, got %q ok=%v", value, ok)
	}

	empty := ingest.NewRow([]string{"LS Name"}, []string{"   "})
	if _, ok := empty.Lookup("ls name"); ok {
		t.Fatal("whitespace-only value must not match")
	}
}

func TestLookupNoMatch(t *testing.T) {
	row := ingest.NewRow([]string{"Totally Unrelated"}, []string{"x"})
	if _, ok := row.Lookup("dbm supplier name", "dbm name"); ok {
		t.Fatal("expected no match")
	}
}

func TestRowFromPairsKeepsOrder(t *testing.T) {
	row := ingest.RowFromPairs(
		[2]string{"B Column", "2"},
		[2]string{"A Column", "1"},
	)
	names := row.Names()
	if len(names) != 2 || names[0] != "B Column" || names[1] != "A Column" {
		t.Fatalf("expected source order preserved, got %v", names)
	}
}
