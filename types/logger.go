package types

// Logger defines methods for structured logging.
//
// The controller logs only through this interface and never exits the
// process, so there is deliberately no Fatal method. Implementations must be
// safe for concurrent use: the run loop, unit goroutines, and connection
// watchers all log.
//
// All methods accept alternating key-value pairs (slog style) for
// structured fields.
type Logger interface {
	// Debug logs high-volume diagnostics such as registry lookup retries
	// and per-unit completions.
	Debug(msg string, keysAndValues ...any)

	// Info logs lifecycle events such as state transitions and
	// subscriptions being established or released.
	Info(msg string, keysAndValues ...any)

	// Warn logs recoverable trouble such as dropped messages or a full
	// results channel.
	Warn(msg string, keysAndValues ...any)

	// Error logs failures such as subscribe errors and abnormal
	// termination.
	Error(msg string, keysAndValues ...any)
}
