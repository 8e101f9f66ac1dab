package integration_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/yonashaile/consup"
	consuptest "github.com/yonashaile/consup/testing"
)

// recorder collects the payloads a handler has processed.
type recorder struct {
	mu       sync.Mutex
	payloads []string
}

func (r *recorder) handler() consup.HandlerFunc {
	return func(_ /* ctx */ context.Context, msg *nats.Msg) error {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.payloads = append(r.payloads, string(msg.Data))

		return nil
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.payloads)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.payloads))
	copy(out, r.payloads)

	return out
}

// consumerConfig returns fast test timings with the given connection name
// and subscriptions filled in. The caller still sets Server or Handler.
func consumerConfig(name string, subs ...consup.TopicSubscription) *consup.Config {
	cfg := consup.TestConfig()
	cfg.ConnectionName = name
	cfg.Subscriptions = subs

	return cfg
}

// startController creates and starts a controller, and guarantees it is
// fully stopped before the test tears down the NATS server.
func startController(t *testing.T, cfg *consup.Config, reg consup.Registry, opts ...consup.Option) *consup.Controller {
	t.Helper()

	opts = append(opts, consup.WithLogger(consuptest.NewTestLogger(t)))

	ctrl, err := consup.New(cfg, reg, opts...)
	require.NoError(t, err)
	require.NoError(t, ctrl.Start(context.Background()))

	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = ctrl.Stop(stopCtx)

		// The run loop logs through testing.T; wait for it to exit before
		// the test is marked complete.
		select {
		case <-ctrl.Done():
		case <-time.After(5 * time.Second):
			t.Log("controller did not stop within cleanup timeout")
		}
	})

	return ctrl
}

// waitConnected blocks until the controller reports StateConnected.
func waitConnected(t *testing.T, ctrl *consup.Controller) {
	t.Helper()

	require.NoError(t, <-ctrl.WaitState(consup.StateConnected, 5*time.Second))
}
