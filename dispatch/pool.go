package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/yonashaile/consup/types"
)

// Pool executes units of work in isolation, one goroutine per unit.
//
// Submissions are fire-and-forget: Submit returns as soon as the unit's
// goroutine is spawned and never waits for the task to run. A panicking task
// is recovered inside its own goroutine and reported as a failed Result, so
// no unit can take down the pool or its submitter.
//
// The pool never cancels running units. Close stops intake and closes the
// Done channel; units already in flight run to completion and their results
// are still delivered.
type Pool struct {
	logger  types.Logger
	metrics types.DispatchMetrics

	// In-flight units keyed by unit ID.
	units *xsync.MapOf[string, *unit]

	results chan Result
	dropped atomic.Int64

	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// unit tracks one in-flight unit of work.
type unit struct {
	id      string
	label   string
	started time.Time
}

// New creates a new dispatch pool.
//
// Parameters:
//   - cfg: Pool configuration; the zero value is usable
//
// Returns:
//   - *Pool: A new pool ready to accept submissions
//
// Example:
//
//	pool := dispatch.New(dispatch.Config{Logger: logger})
//	err := pool.Submit(ctx, "orders.created", func(ctx context.Context) error {
//	    return process(ctx, msg)
//	})
func New(cfg Config) *Pool {
	cfg.setDefaults()

	return &Pool{
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		units:   xsync.NewMapOf[string, *unit](),
		results: make(chan Result, cfg.ResultBuffer),
		done:    make(chan struct{}),
	}
}

// Submit spawns a new unit of work running fn in its own goroutine.
//
// Submit never blocks on the task and returns immediately after the unit is
// registered and its goroutine started. The unit's outcome is delivered on
// Results; submission itself carries no completion signal.
//
// Parameters:
//   - ctx: Lifecycle context passed through to the task
//   - label: Caller-supplied label for logs and metrics (typically the message subject)
//   - fn: The task to execute
//
// Returns:
//   - error: ErrPoolClosed if the pool has been closed, nil otherwise
func (p *Pool) Submit(ctx context.Context, label string, fn Task) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	u := &unit{
		id:      uuid.NewString(),
		label:   label,
		started: time.Now(),
	}
	p.units.Store(u.id, u)
	p.metrics.RecordUnitStarted(label)
	p.metrics.RecordPendingUnits(p.units.Size())

	go p.run(ctx, u, fn)

	return nil
}

// run executes one unit with panic isolation and reports its outcome.
func (p *Pool) run(ctx context.Context, u *unit, fn Task) {
	res := Result{UnitID: u.id, Label: u.label}

	func() {
		defer func() {
			if r := recover(); r != nil {
				res.Panicked = true
				res.PanicValue = r
				res.Err = fmt.Errorf("unit of work panicked: %v", r)
			}
		}()
		res.Err = fn(ctx)
	}()

	res.Elapsed = time.Since(u.started)

	p.units.Delete(u.id)
	p.metrics.RecordPendingUnits(p.units.Size())
	p.metrics.RecordUnitCompleted(u.label, res.Success(), res.Elapsed.Seconds())
	if res.Panicked {
		p.metrics.RecordUnitPanic(u.label)
		p.logger.Error("unit of work panicked",
			"unit_id", u.id,
			"label", u.label,
			"panic", res.PanicValue,
		)
	}

	p.deliver(res)
}

// deliver sends a result without blocking.
//
// A full results channel means the consumer is slow or absent; the result is
// dropped and counted rather than blocking the unit goroutine.
func (p *Pool) deliver(res Result) {
	select {
	case p.results <- res:
	default:
		dropped := p.dropped.Add(1)
		p.metrics.RecordResultDropped()
		p.logger.Warn("unit result dropped, results channel full",
			"unit_id", res.UnitID,
			"label", res.Label,
			"dropped_total", dropped,
		)
	}
}

// Results returns the channel of unit outcomes.
//
// The channel is never closed; consumers should select against Done.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Done returns a channel closed when the pool terminates.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Pending returns the current number of in-flight units.
func (p *Pool) Pending() int {
	return p.units.Size()
}

// Snapshot returns the labels of all in-flight units.
//
// The returned slice is a copy in unspecified order.
func (p *Pool) Snapshot() []string {
	labels := make([]string, 0, p.units.Size())
	p.units.Range(func(_ string, u *unit) bool {
		labels = append(labels, u.label)
		return true
	})

	return labels
}

// DroppedResults returns the total number of results dropped due to a full
// results channel.
func (p *Pool) DroppedResults() int64 {
	return p.dropped.Load()
}

// Close terminates the pool. It is safe to call multiple times.
//
// Close stops intake (subsequent Submit calls return ErrPoolClosed) and
// closes the Done channel. In-flight units are not cancelled; they run to
// completion and still deliver their results.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.done)
	})
}
