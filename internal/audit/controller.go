package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"pairaudit/internal/gemini"
	"pairaudit/internal/ingest"
	"pairaudit/internal/logging"
)

// Oracle decides whether two supplier names refer to the same company.
// Implementations make exactly one attempt per call.
type Oracle interface {
	Resolve(ctx context.Context, supplierA, supplierB string, metadata ingest.Row) (gemini.Verdict, error)
}

const (
	// DefaultConcurrency is the fixed worker pool size used when no override
	// is configured.
	DefaultConcurrency = 3

	defaultPausePoll = 500 * time.Millisecond
)

// Controller owns the work queue, the worker pool, and the control flags for
// one batch at a time. Starting a new batch discards all prior state.
type Controller struct {
	oracle      Oracle
	logger      *slog.Logger
	concurrency int
	pausePoll   time.Duration
	observer    func(Item)

	mu         sync.Mutex
	queue      []int
	projection *Projection

	paused  atomic.Bool
	stopped atomic.Bool
	running atomic.Bool
}

// ControllerOption configures optional controller behavior.
type ControllerOption func(*Controller)

// WithConcurrency overrides the worker pool size. Values below 1 are clamped.
func WithConcurrency(n int) ControllerOption {
	return func(c *Controller) {
		if n >= 1 {
			c.concurrency = n
		}
	}
}

// WithPausePoll overrides how often a paused worker re-checks the pause flag.
func WithPausePoll(interval time.Duration) ControllerOption {
	return func(c *Controller) {
		if interval > 0 {
			c.pausePoll = interval
		}
	}
}

// WithObserver registers a callback invoked with an item snapshot on every
// status transition. The callback runs on worker goroutines and must not call
// back into the controller.
func WithObserver(fn func(Item)) ControllerOption {
	return func(c *Controller) {
		c.observer = fn
	}
}

// NewController constructs a batch controller around a match oracle.
func NewController(oracle Oracle, logger *slog.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		oracle:      oracle,
		logger:      logging.NewComponentLogger(logger, "audit"),
		concurrency: DefaultConcurrency,
		pausePoll:   defaultPausePoll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin replaces any previous batch with fresh pending items built from the
// rows, seeding the work queue in input order. It returns the new projection.
// Begin must not be called while Run is in flight; stop the running batch and
// wait for Run to return first.
func (c *Controller) Begin(rows []ingest.Row, fallback string) *Projection {
	items := NewItems(rows, fallback)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = NewProjection(items)
	c.queue = make([]int, len(items))
	for i := range items {
		c.queue[i] = i
	}
	c.stopped.Store(false)
	c.paused.Store(false)
	return c.projection
}

// Projection returns the current batch projection, or nil before Begin.
func (c *Controller) Projection() *Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

// Run drains the current batch with the configured worker pool and blocks
// until every worker has terminated. Completion is observed through the
// projection, not a return value; Run itself only fails on misuse.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("audit: batch already running")
	}
	defer c.running.Store(false)

	c.mu.Lock()
	projection := c.projection
	pending := len(c.queue)
	c.mu.Unlock()
	if projection == nil {
		return errors.New("audit: no batch started")
	}

	workers := c.concurrency
	if pending < workers {
		workers = pending
	}
	if workers == 0 {
		return nil
	}

	c.logger.Info("batch started",
		logging.Int("items", projection.Len()),
		logging.Int("workers", workers),
	)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			c.work(ctx)
		}()
	}
	wg.Wait()

	counts := projection.Counts()
	c.logger.Info("batch finished",
		logging.Int("completed", counts.Completed),
		logging.Int("errored", counts.Errored),
	)
	return nil
}

// Pause blocks the next dequeue on every worker. In-flight oracle calls are
// not interrupted.
func (c *Controller) Pause() {
	c.paused.Store(true)
	c.logger.Info("batch paused")
}

// Resume clears the pause flag; workers immediately resume dequeuing.
func (c *Controller) Resume() {
	c.paused.Store(false)
	c.logger.Info("batch resumed")
}

// Paused reports whether the pause flag is set.
func (c *Controller) Paused() bool {
	return c.paused.Load()
}

// Stop raises the stop flag and synchronously forces every item still pending
// or processing into the error state with StopMessage. Oracle calls still in
// flight are left to finish in the background; their results are discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped.Swap(true) {
		c.mu.Unlock()
		return
	}
	c.queue = nil
	var forced []Item
	if c.projection != nil {
		forced = c.projection.failRemaining(StopMessage, ReasonStopped)
	}
	c.mu.Unlock()

	c.paused.Store(false)
	for _, item := range forced {
		c.notify(item)
	}
	c.logger.Info("batch stopped", logging.Int("forced", len(forced)))
}

// Stopped reports whether the stop flag is set.
func (c *Controller) Stopped() bool {
	return c.stopped.Load()
}

func (c *Controller) work(ctx context.Context) {
	for {
		if c.stopped.Load() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		if c.paused.Load() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.pausePoll):
			}
			continue
		}

		idx, item, ok := c.next()
		if !ok {
			return
		}
		c.notify(item)
		c.logger.Debug("item processing",
			logging.String(logging.FieldItem, item.ID),
			logging.String("supplier_a", item.SupplierA),
			logging.String("supplier_b", item.SupplierB),
		)

		verdict, err := c.oracle.Resolve(ctx, item.SupplierA, item.SupplierB, item.Metadata)
		if err != nil {
			item.Status = StatusError
			item.ErrorMessage = errorMessage(err)
			item.ErrorReason = ReasonOracleFailure
		} else {
			item.Status = StatusCompleted
			item.IsMatch = verdict.IsMatch
			item.SectorA = verdict.SectorA
			item.SectorB = verdict.SectorB
			item.Reasoning = verdict.Reasoning
			item.Citations = verdict.Citations
			item.ErrorMessage = ""
			item.ErrorReason = ReasonNone
		}
		c.finish(idx, item)
	}
}

// next atomically pops the queue head and marks the item processing. The pop
// and the status write share one critical section so a concurrent Stop either
// sees the item pending (and forces it) or the pop loses the race entirely.
func (c *Controller) next() (int, Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped.Load() || len(c.queue) == 0 {
		return 0, Item{}, false
	}
	idx := c.queue[0]
	c.queue = c.queue[1:]
	item, ok := c.projection.Get(idx)
	if !ok {
		return 0, Item{}, false
	}
	item.Status = StatusProcessing
	c.projection.replace(idx, item)
	return idx, item, true
}

// finish writes a terminal result unless stop was raised while the oracle
// call was in flight, in which case the stop handler already forced the item
// and the late result is discarded.
func (c *Controller) finish(idx int, item Item) {
	c.mu.Lock()
	if c.stopped.Load() {
		c.mu.Unlock()
		return
	}
	c.projection.replace(idx, item)
	c.mu.Unlock()

	c.notify(item)
	if item.Status == StatusError {
		c.logger.Warn("item failed",
			logging.String(logging.FieldItem, item.ID),
			logging.String("reason", string(item.ErrorReason)),
			logging.String("message", item.ErrorMessage),
		)
		return
	}
	c.logger.Debug("item completed",
		logging.String(logging.FieldItem, item.ID),
		logging.Bool("match", item.IsMatch),
	)
}

func (c *Controller) notify(item Item) {
	if c.observer != nil {
		c.observer(item)
	}
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "audit failed"
	}
	return err.Error()
}
