package results_test

import (
	"context"
	"errors"
	"testing"

	"pairaudit/internal/audit"
	"pairaudit/internal/gemini"
	"pairaudit/internal/results"
	"pairaudit/internal/testsupport"
)

func sampleItems() []audit.Item {
	return []audit.Item{
		{
			ID:        "ID-1",
			SupplierA: "Acme Co",
			SupplierB: "Acme Corp",
			Status:    audit.StatusCompleted,
			IsMatch:   true,
			SectorA:   "Manufacturing",
			SectorB:   "Manufacturing",
			Reasoning: "same registration number",
			Citations: []gemini.Citation{{Title: "Company register", URI: "https://example.com/acme"}},
		},
		{
			ID:           "ID-2",
			SupplierA:    "Foo",
			SupplierB:    "Bar",
			Status:       audit.StatusError,
			ErrorMessage: "quota exceeded",
			ErrorReason:  audit.ReasonOracleFailure,
		},
	}
}

func TestSaveRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	items := sampleItems()
	run := results.NewRun("suppliers.csv", items)
	if run.Total != 2 || run.Completed != 1 || run.Errored != 1 || run.Matched != 1 {
		t.Fatalf("unexpected run summary %+v", run)
	}

	if err := store.SaveRun(ctx, run, items); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Source != "suppliers.csv" || fetched.Total != 2 {
		t.Fatalf("unexpected fetched run %+v", fetched)
	}
	if fetched.CreatedAt.IsZero() {
		t.Fatal("expected created_at to round-trip")
	}

	stored, err := store.RunItems(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunItems failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 items, got %d", len(stored))
	}
	if stored[0].ID != "ID-1" || !stored[0].IsMatch || len(stored[0].Citations) != 1 {
		t.Fatalf("unexpected first item %+v", stored[0])
	}
	if stored[0].Citations[0].URI != "https://example.com/acme" {
		t.Fatalf("citation did not round-trip: %+v", stored[0].Citations)
	}
	if stored[1].ErrorReason != audit.ReasonOracleFailure || stored[1].ErrorMessage != "quota exceeded" {
		t.Fatalf("unexpected second item %+v", stored[1])
	}
}

func TestRunItemsPreserveOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	var items []audit.Item
	for _, id := range []string{"ID-1", "ID-2", "ID-3", "ID-4"} {
		items = append(items, audit.Item{
			ID:        id,
			SupplierA: "A " + id,
			SupplierB: "B " + id,
			Status:    audit.StatusCompleted,
		})
	}
	run := results.NewRun("ordered.csv", items)
	if err := store.SaveRun(ctx, run, items); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	stored, err := store.RunItems(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunItems failed: %v", err)
	}
	for i, item := range stored {
		if item.ID != items[i].ID {
			t.Fatalf("position %d: got %s, want %s", i, item.ID, items[i].ID)
		}
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, source := range []string{"first.csv", "second.csv", "third.csv"} {
		run := results.NewRun(source, nil)
		if err := store.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", source, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	latest, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if latest.ID != runs[0].ID {
		t.Fatalf("LatestRun disagrees with ListRuns: %s vs %s", latest.ID, runs[0].ID)
	}
}

func TestGetRunMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.GetRun(context.Background(), "no-such-run"); !errors.Is(err, results.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	items := sampleItems()
	run := results.NewRun("doomed.csv", items)
	if err := store.SaveRun(ctx, run, items); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}

	if _, err := store.GetRun(ctx, run.ID); !errors.Is(err, results.ErrRunNotFound) {
		t.Fatalf("expected run gone, got %v", err)
	}
	stored, err := store.RunItems(ctx, run.ID)
	if err != nil {
		t.Fatalf("RunItems failed: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected cascade delete, found %d items", len(stored))
	}
}
