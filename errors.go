package consup

import (
	"github.com/yonashaile/consup/types"
)

// Re-exported error values from the types package for convenience.
// All errors are aliases, so errors.Is works across both packages.
var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrRegistryRequired is returned when no connection registry is provided.
	ErrRegistryRequired = types.ErrRegistryRequired

	// ErrHandlerRequired is returned when neither a Server nor a HandlerFunc is configured.
	ErrHandlerRequired = types.ErrHandlerRequired

	// ErrHandlerConflict is returned when both a Server and a HandlerFunc are configured.
	ErrHandlerConflict = types.ErrHandlerConflict

	// ErrAlreadyStarted is returned when Start is called on a running controller.
	ErrAlreadyStarted = types.ErrAlreadyStarted

	// ErrNotStarted is returned when Stop is called on a controller that is not running.
	ErrNotStarted = types.ErrNotStarted

	// ErrSubscribeFailed is returned when topic subscription setup fails.
	ErrSubscribeFailed = types.ErrSubscribeFailed

	// ErrShutdownAbandoned is returned when the caller's context expires before
	// the drain completes. The drain keeps running in the background.
	ErrShutdownAbandoned = types.ErrShutdownAbandoned

	// ErrContextCanceled is returned when an operation is interrupted by
	// context cancellation.
	ErrContextCanceled = types.ErrContextCanceled
)
