package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/yonashaile/consup"
	"github.com/yonashaile/consup/registry"
	consuptest "github.com/yonashaile/consup/testing"
)

// TestController_ReconnectAfterConnectionClose drives the full loss/recovery
// cycle: consume, lose the connection, swap a live one into the registry,
// consume again.
func TestController_ReconnectAfterConnectionClose(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ns, first := consuptest.StartEmbeddedNATS(t)

	reg := registry.NewStatic(map[string]*nats.Conn{"jobs": first})

	connected := make(chan string, 4)
	disconnected := make(chan string, 4)
	hooks := &consup.Hooks{
		OnConnected: func(_ /* ctx */ context.Context, name string) error {
			connected <- name
			return nil
		},
		OnDisconnected: func(_ /* ctx */ context.Context, name string) error {
			disconnected <- name
			return nil
		},
	}

	rec := &recorder{}
	cfg := consumerConfig("jobs", consup.TopicSubscription{Topic: "jobs.work"})
	cfg.Handler = rec.handler()

	ctrl := startController(t, cfg, reg, consup.WithHooks(hooks))
	waitConnected(t, ctrl)
	require.NoError(t, first.Flush())

	select {
	case name := <-connected:
		require.Equal(t, "jobs", name)
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnected hook did not fire")
	}

	pub := consuptest.Connect(t, ns)
	require.NoError(t, pub.Publish("jobs.work", []byte("before")))
	require.NoError(t, pub.Flush())

	require.Eventually(t, func() bool {
		return rec.count() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Kill the borrowed connection; the controller must fall back to
	// Disconnected and start polling the registry again.
	first.Close()

	require.NoError(t, <-ctrl.WaitState(consup.StateDisconnected, 5*time.Second))
	require.Nil(t, ctrl.ActiveSubjects())

	select {
	case name := <-disconnected:
		require.Equal(t, "jobs", name)
	case <-time.After(2 * time.Second):
		t.Fatal("OnDisconnected hook did not fire")
	}

	// The registry still serves the dead handle; the controller must keep
	// waiting rather than consume from a corpse.
	time.Sleep(3 * cfg.ReconnectWait)
	require.Equal(t, consup.StateDisconnected, ctrl.State())

	// Swap in a live replacement
	second := consuptest.Connect(t, ns)
	reg.Set("jobs", second)

	waitConnected(t, ctrl)
	require.NoError(t, second.Flush())

	select {
	case name := <-connected:
		require.Equal(t, "jobs", name)
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnected hook did not fire after recovery")
	}

	require.NoError(t, pub.Publish("jobs.work", []byte("after")))
	require.NoError(t, pub.Flush())

	require.Eventually(t, func() bool {
		return rec.count() == 2
	}, 5*time.Second, 10*time.Millisecond)

	require.ElementsMatch(t, []string{"before", "after"}, rec.all())
}

// TestController_ClosedConnectionInRegistry verifies the lookup rejects a
// connection that is already closed instead of subscribing on it.
func TestController_ClosedConnectionInRegistry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ns, live := consuptest.StartEmbeddedNATS(t)

	dead := consuptest.Connect(t, ns)
	dead.Close()

	reg := registry.NewStatic(map[string]*nats.Conn{"picky": dead})

	rec := &recorder{}
	cfg := consumerConfig("picky", consup.TopicSubscription{Topic: "picky.work"})
	cfg.Handler = rec.handler()

	ctrl := startController(t, cfg, reg)

	// The dead handle must never produce a Connected state
	time.Sleep(4 * cfg.ReconnectWait)
	require.Equal(t, consup.StateDisconnected, ctrl.State())

	reg.Set("picky", live)
	waitConnected(t, ctrl)
}

// TestController_ConsumeWithQueueGroup verifies queue-group delivery: each
// message goes to exactly one member, plain subscribers see everything.
func TestController_ConsumeWithQueueGroup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	const messageCount = 20

	ns, _ := consuptest.StartEmbeddedNATS(t)

	connA := consuptest.Connect(t, ns)
	connB := consuptest.Connect(t, ns)

	regA := registry.NewStatic(map[string]*nats.Conn{"worker": connA})
	regB := registry.NewStatic(map[string]*nats.Conn{"worker": connB})

	recA := &recorder{}
	cfgA := consumerConfig("worker", consup.TopicSubscription{Topic: "jobs", QueueGroup: "crunchers"})
	cfgA.Handler = recA.handler()

	recB := &recorder{}
	cfgB := consumerConfig("worker", consup.TopicSubscription{Topic: "jobs", QueueGroup: "crunchers"})
	cfgB.Handler = recB.handler()

	ctrlA := startController(t, cfgA, regA)
	ctrlB := startController(t, cfgB, regB)
	waitConnected(t, ctrlA)
	waitConnected(t, ctrlB)
	require.NoError(t, connA.Flush())
	require.NoError(t, connB.Flush())

	pub := consuptest.Connect(t, ns)
	for i := range messageCount {
		require.NoError(t, pub.Publish("jobs", []byte{byte(i)}))
	}
	require.NoError(t, pub.Flush())

	// Queue semantics: the group as a whole sees every message exactly once
	require.Eventually(t, func() bool {
		return recA.count()+recB.count() == messageCount
	}, 5*time.Second, 10*time.Millisecond)

	seen := make(map[byte]int)
	for _, p := range append(recA.all(), recB.all()...) {
		seen[p[0]]++
	}

	require.Len(t, seen, messageCount, "every message should be delivered")
	for b, n := range seen {
		require.Equal(t, 1, n, "message %d delivered more than once", b)
	}
}
