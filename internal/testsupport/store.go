package testsupport

import (
	"testing"

	"pairaudit/internal/config"
	"pairaudit/internal/results"
)

// MustOpenStore opens a results store for the config and closes it when the
// test finishes.
func MustOpenStore(t *testing.T, cfg *config.Config) *results.Store {
	t.Helper()
	store, err := results.Open(cfg)
	if err != nil {
		t.Fatalf("open results store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close results store: %v", err)
		}
	})
	return store
}
