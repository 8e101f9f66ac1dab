package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the consup library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Controller, Dispatch, Registry)
//   - Use consistent messages across similar error types

// Controller errors - Public API errors returned by the Controller component.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRegistryRequired is returned when the connection registry is nil.
	ErrRegistryRequired = errors.New("connection registry is required")

	// ErrHandlerRequired is returned when neither a server nor a handler
	// function is configured.
	ErrHandlerRequired = errors.New("message handler is required")

	// ErrHandlerConflict is returned when both a server and a handler
	// function are configured.
	ErrHandlerConflict = errors.New("server and handler are mutually exclusive")

	// ErrAlreadyStarted is returned when Start is called on an already running controller.
	ErrAlreadyStarted = errors.New("controller already started")

	// ErrNotStarted is returned when operations require a started controller.
	ErrNotStarted = errors.New("controller not started")

	// ErrSubscribeFailed is returned when establishing topic subscriptions fails.
	// The controller terminates after this error; restarting is the owner's decision.
	ErrSubscribeFailed = errors.New("subscription setup failed")

	// ErrShutdownAbandoned is returned when the caller's context expires
	// before an orderly shutdown finishes draining in-flight work.
	ErrShutdownAbandoned = errors.New("shutdown abandoned before drain completed")
)

// Common errors - Shared errors used across multiple components.
var (
	// ErrContextCanceled is returned when an operation is canceled by context.
	ErrContextCanceled = errors.New("operation canceled by context")
)

// IsConnectionClosedError checks if an error indicates the NATS connection
// is already closed.
//
// This function handles NATS-specific "connection closed" errors which may come as:
//   - Direct error: "nats: connection closed"
//   - Wrapped error: "failed to unsubscribe: nats: connection closed"
//
// Teardown paths use it to downgrade expected failures when the broker
// connection died before cleanup ran.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates a closed connection, false otherwise
func IsConnectionClosedError(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "connection closed")
}
