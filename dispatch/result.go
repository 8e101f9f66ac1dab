package dispatch

import (
	"context"
	"time"
)

// Task is a single unit of work executed by the pool.
//
// The context is the pool submitter's lifecycle context, not a per-unit
// deadline; tasks should respect its cancellation for long-running work.
type Task func(ctx context.Context) error

// Result reports the outcome of one finished unit of work.
//
// Results are informational. Consuming them (or failing to) never affects
// other units or the pool itself.
type Result struct {
	// UnitID is the pool-assigned unique ID of the unit.
	UnitID string

	// Label is the caller-supplied label passed to Submit.
	Label string

	// Err is the error returned by the task, or a wrapped panic error when
	// Panicked is true. Nil on success.
	Err error

	// Panicked reports whether the task terminated by panicking.
	Panicked bool

	// PanicValue is the recovered panic value when Panicked is true.
	PanicValue any

	// Elapsed is the task execution time.
	Elapsed time.Duration
}

// Success reports whether the unit completed without error or panic.
func (r Result) Success() bool {
	return r.Err == nil && !r.Panicked
}
