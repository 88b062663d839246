package results

import (
	"time"

	"github.com/google/uuid"

	"pairaudit/internal/audit"
)

// Run is the stored summary of one finished audit batch.
type Run struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Total     int
	Completed int
	Errored   int
	Matched   int
}

// NewRun stamps a fresh run record for the given source label and items.
func NewRun(source string, items []audit.Item) Run {
	run := Run{
		ID:        uuid.New().String(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Total:     len(items),
	}
	for _, item := range items {
		switch item.Status {
		case audit.StatusCompleted:
			run.Completed++
			if item.IsMatch {
				run.Matched++
			}
		case audit.StatusError:
			run.Errored++
		}
	}
	return run
}
