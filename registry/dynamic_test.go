package registry

import (
	"sync"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func TestDynamic_RegisterAndLookup(t *testing.T) {
	reg := NewDynamic()

	_, ok := reg.Lookup("orders")
	require.False(t, ok)

	conn := &nats.Conn{}
	reg.Register("orders", conn)

	got, ok := reg.Lookup("orders")
	require.True(t, ok)
	require.Same(t, conn, got)
}

func TestDynamic_Deregister(t *testing.T) {
	reg := NewDynamic()

	conn := &nats.Conn{}
	reg.Register("orders", conn)

	removed, ok := reg.Deregister("orders")
	require.True(t, ok)
	require.Same(t, conn, removed)

	_, ok = reg.Lookup("orders")
	require.False(t, ok)

	// Deregistering an absent entry reports false.
	removed, ok = reg.Deregister("orders")
	require.False(t, ok)
	require.Nil(t, removed)
}

func TestDynamic_Names(t *testing.T) {
	reg := NewDynamic()
	require.Empty(t, reg.Names())

	reg.Register("orders", &nats.Conn{})
	reg.Register("billing", &nats.Conn{})

	names := reg.Names()
	require.Len(t, names, 2)
	require.ElementsMatch(t, []string{"orders", "billing"}, names)
}

func TestDynamic_ConcurrentAccess(t *testing.T) {
	reg := NewDynamic()

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			for range 100 {
				reg.Register("orders", &nats.Conn{})
				reg.Lookup("orders")
				reg.Deregister("orders")
			}
		})
	}
	wg.Wait()

	_, ok := reg.Lookup("orders")
	require.False(t, ok)
}
