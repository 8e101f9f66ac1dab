package hooks

import (
	"context"

	"github.com/yonashaile/consup/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.State, types.State) error = (*NopHooks)(nil).OnStateChanged
	_ func(context.Context, string) error                   = (*NopHooks)(nil).OnConnected
	_ func(context.Context, string) error                   = (*NopHooks)(nil).OnDisconnected
	_ func(context.Context, error) error                    = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnStateChanged: h.OnStateChanged,
		OnConnected:    h.OnConnected,
		OnDisconnected: h.OnDisconnected,
		OnError:        h.OnError,
	}
}

// OnStateChanged is a no-op implementation.
func (h *NopHooks) OnStateChanged(ctx context.Context, from, to types.State) error {
	return nil
}

// OnConnected is a no-op implementation.
func (h *NopHooks) OnConnected(ctx context.Context, connectionName string) error {
	return nil
}

// OnDisconnected is a no-op implementation.
func (h *NopHooks) OnDisconnected(ctx context.Context, connectionName string) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
