package audit

import (
	"testing"

	"pairaudit/internal/ingest"
)

func TestNewItemsResolvesHeaderVariants(t *testing.T) {
	rows := []ingest.Row{
		ingest.NewRow([]string{"LS Supplier Name", "DBM Supplier Name"}, []string{"Acme", "Acme Corp"}),
		ingest.NewRow([]string{"ls", "dbm"}, []string{"Foo", "Bar"}),
		ingest.NewRow([]string{"Supplier LS", "Supplier DBM"}, []string{"One", "Two"}),
	}

	items := NewItems(rows, "Unknown Supplier")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := [][2]string{{"Acme", "Acme Corp"}, {"Foo", "Bar"}, {"One", "Two"}}
	for i, item := range items {
		if item.SupplierA != want[i][0] || item.SupplierB != want[i][1] {
			t.Fatalf("item %d: got %q/%q, want %q/%q",
				i, item.SupplierA, item.SupplierB, want[i][0], want[i][1])
		}
		if item.Status != StatusPending {
			t.Fatalf("item %d: expected pending, got %s", i, item.Status)
		}
	}
}

func TestNewItemsNumbersSequentially(t *testing.T) {
	rows := []ingest.Row{
		ingest.RowFromPairs([2]string{"ls", "A"}, [2]string{"dbm", "B"}),
		ingest.RowFromPairs([2]string{"ls", "C"}, [2]string{"dbm", "D"}),
	}
	items := NewItems(rows, "")
	if items[0].ID != "ID-1" || items[1].ID != "ID-2" {
		t.Fatalf("unexpected IDs %q, %q", items[0].ID, items[1].ID)
	}
}

func TestNewItemsDefaultsFallbackWhenBlank(t *testing.T) {
	rows := []ingest.Row{ingest.NewRow([]string{"other"}, []string{"x"})}
	items := NewItems(rows, "   ")
	if items[0].SupplierA != "Unknown Supplier" {
		t.Fatalf("expected default fallback, got %q", items[0].SupplierA)
	}
}
