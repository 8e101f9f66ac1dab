package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yonashaile/consup/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnStateChanged)
	require.NotNil(t, hooks.OnConnected)
	require.NotNil(t, hooks.OnDisconnected)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_OnStateChanged(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	err := hooks.OnStateChanged(ctx, types.StateInit, types.StateConnected)
	require.NoError(t, err)
}

func TestNopHooks_OnConnected(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	err := hooks.OnConnected(ctx, "orders")
	require.NoError(t, err)
}

func TestNopHooks_OnDisconnected(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	err := hooks.OnDisconnected(ctx, "orders")
	require.NoError(t, err)
}

func TestNopHooks_OnError(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	testErr := context.Canceled
	err := hooks.OnError(ctx, testErr)
	require.NoError(t, err)
}
