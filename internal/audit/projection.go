package audit

import "sync"

// Counts aggregates projection statuses. Completed counts only successful
// items; errored items are terminal but tallied separately.
type Counts struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Errored    int
}

// Finished reports whether every item reached a terminal state.
func (c Counts) Finished() bool {
	return c.Pending == 0 && c.Processing == 0
}

// Projection is the ordered, continuously updated view of all work items.
// Order is fixed at creation and never reshuffled by completion order. All
// writes replace whole items so readers never observe a torn entry.
type Projection struct {
	mu    sync.RWMutex
	items []Item
}

// NewProjection wraps an item slice in a projection. The slice is copied.
func NewProjection(items []Item) *Projection {
	cp := make([]Item, len(items))
	copy(cp, items)
	return &Projection{items: cp}
}

// Len returns the number of items.
func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// Get returns a snapshot of the item at index i.
func (p *Projection) Get(i int) (Item, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i < 0 || i >= len(p.items) {
		return Item{}, false
	}
	return p.items[i], true
}

// Snapshot returns a copy of every item in input order.
func (p *Projection) Snapshot() []Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cp := make([]Item, len(p.items))
	copy(cp, p.items)
	return cp
}

// Counts returns the aggregate status tallies.
func (p *Projection) Counts() Counts {
	p.mu.RLock()
	defer p.mu.RUnlock()
	counts := Counts{Total: len(p.items)}
	for _, item := range p.items {
		switch item.Status {
		case StatusPending:
			counts.Pending++
		case StatusProcessing:
			counts.Processing++
		case StatusCompleted:
			counts.Completed++
		case StatusError:
			counts.Errored++
		}
	}
	return counts
}

func (p *Projection) replace(i int, item Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.items) {
		return
	}
	p.items[i] = item
}

// failRemaining forces every non-terminal item into the error state with the
// given message and reason, returning snapshots of the items it changed.
func (p *Projection) failRemaining(message string, reason Reason) []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	var changed []Item
	for i, item := range p.items {
		if item.Status.IsTerminal() {
			continue
		}
		item.Status = StatusError
		item.ErrorMessage = message
		item.ErrorReason = reason
		p.items[i] = item
		changed = append(changed, item)
	}
	return changed
}
