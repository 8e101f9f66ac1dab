package types

import "context"

// Hooks defines callbacks for Controller lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking the control loop. Hooks receive the controller's lifecycle
// context which will be cancelled during shutdown.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks run concurrently and may not complete before Stop() returns
//   - The context passed to hooks is cancelled when the controller stops
//   - Hook errors are logged but don't fail controller operations
//
// Best practices for hook implementation:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Don't block on long I/O operations
//   - Make hooks idempotent (may be called multiple times)
//   - Handle errors gracefully (return error for logging)
//
// Example:
//
//	hooks := &consup.Hooks{
//	    OnStateChanged: func(ctx context.Context, from, to consup.State) error {
//	        select {
//	        case <-ctx.Done():
//	            return ctx.Err()  // Controller is shutting down
//	        case stateChan <- StateMetric{from, to}:
//	            return nil
//	        case <-time.After(500 * time.Millisecond):
//	            return errors.New("metric send timeout")
//	        }
//	    },
//	}
type Hooks struct {
	// OnStateChanged is called when the controller state transitions.
	OnStateChanged func(ctx context.Context, from, to State) error

	// OnConnected is called after all subscriptions are established on a
	// connection. The connection name identifies the registry entry used.
	OnConnected func(ctx context.Context, connectionName string) error

	// OnDisconnected is called when the monitored connection is lost and the
	// controller returns to its lookup cycle.
	OnDisconnected func(ctx context.Context, connectionName string) error

	// OnError is called when a recoverable error occurs.
	OnError func(ctx context.Context, err error) error
}
