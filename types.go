package consup

import (
	"github.com/yonashaile/consup/registry"
	"github.com/yonashaile/consup/types"
)

// Re-exported types from the types and registry packages for convenience.
// Users can use consup.Logger instead of types.Logger, etc.

// State represents the current lifecycle state of a controller.
type State = types.State

// State constants re-exported for convenience.
const (
	// StateInit is the initial state before Start is called.
	StateInit = types.StateInit

	// StateDisconnected means the controller is running but has no live
	// connection, and is retrying the registry lookup.
	StateDisconnected = types.StateDisconnected

	// StateConnected means the controller holds a live connection and its
	// topic subscriptions are established.
	StateConnected = types.StateConnected

	// StateShuttingDown means an orderly shutdown is in progress.
	StateShuttingDown = types.StateShuttingDown

	// StateStopped is the terminal state.
	StateStopped = types.StateStopped
)

// Logger is the interface for structured logging.
type Logger = types.Logger

// MetricsCollector is the interface for metrics collection.
type MetricsCollector = types.MetricsCollector

// Hooks contains optional lifecycle callbacks.
type Hooks = types.Hooks

// Registry resolves named connections.
type Registry = registry.Registry
