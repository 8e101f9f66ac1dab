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

// TestController_StopDrainsInFlightWork verifies Stop keeps polling until
// blocked handlers finish, then completes cleanly.
func TestController_StopDrainsInFlightWork(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ns, conn := consuptest.StartEmbeddedNATS(t)

	reg := registry.NewStatic(map[string]*nats.Conn{"drain": conn})

	release := make(chan struct{})
	rec := &recorder{}
	cfg := consumerConfig("drain", consup.TopicSubscription{Topic: "drain.work"})
	cfg.Handler = func(ctx context.Context, msg *nats.Msg) error {
		<-release

		return rec.handler()(ctx, msg)
	}

	ctrl := startController(t, cfg, reg)
	waitConnected(t, ctrl)
	require.NoError(t, conn.Flush())

	pub := consuptest.Connect(t, ns)
	for range 3 {
		require.NoError(t, pub.Publish("drain.work", []byte("job")))
	}
	require.NoError(t, pub.Flush())

	// All three units should be dispatched and blocked on the gate
	require.Eventually(t, func() bool {
		return ctrl.Pending() == 3
	}, 5*time.Second, 10*time.Millisecond)

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- ctrl.Stop(context.Background())
	}()

	// The drain must keep waiting while handlers are blocked
	select {
	case err := <-stopDone:
		t.Fatalf("Stop returned while work was still in flight: %v", err)
	case <-time.After(4 * cfg.DrainPollInterval):
	}

	require.Equal(t, consup.StateShuttingDown, ctrl.State())
	require.Equal(t, 3, ctrl.Pending())

	// Let the handlers finish; the drain should observe zero and complete
	close(release)

	select {
	case err := <-stopDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after handlers finished")
	}

	require.Equal(t, consup.StateStopped, ctrl.State())
	require.Equal(t, 3, rec.count())
	require.Zero(t, ctrl.Pending())
	require.NoError(t, ctrl.Err())
}

// TestController_StopAbandonedByCaller verifies an expiring Stop context
// abandons the wait but not the drain itself.
func TestController_StopAbandonedByCaller(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ns, conn := consuptest.StartEmbeddedNATS(t)

	reg := registry.NewStatic(map[string]*nats.Conn{"impatient": conn})

	release := make(chan struct{})
	rec := &recorder{}
	cfg := consumerConfig("impatient", consup.TopicSubscription{Topic: "impatient.work"})
	cfg.Handler = func(ctx context.Context, msg *nats.Msg) error {
		<-release

		return rec.handler()(ctx, msg)
	}

	ctrl := startController(t, cfg, reg)
	waitConnected(t, ctrl)
	require.NoError(t, conn.Flush())

	pub := consuptest.Connect(t, ns)
	require.NoError(t, pub.Publish("impatient.work", []byte("job")))
	require.NoError(t, pub.Flush())

	require.Eventually(t, func() bool {
		return ctrl.Pending() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// The caller gives up long before the handler finishes
	stopCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := ctrl.Stop(stopCtx)
	require.ErrorIs(t, err, consup.ErrShutdownAbandoned)

	// The controller is still draining in the background
	require.Equal(t, consup.StateShuttingDown, ctrl.State())
	require.Equal(t, 1, ctrl.Pending())

	// Once the handler finishes, the background drain completes cleanly
	close(release)

	select {
	case <-ctrl.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("background drain did not complete")
	}

	require.Equal(t, consup.StateStopped, ctrl.State())
	require.Equal(t, 1, rec.count())
	require.NoError(t, ctrl.Err())
}

// TestController_AbnormalStopSkipsDrain verifies context cancellation
// abandons in-flight work instead of draining it.
func TestController_AbnormalStopSkipsDrain(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ns, conn := consuptest.StartEmbeddedNATS(t)

	reg := registry.NewStatic(map[string]*nats.Conn{"doomed": conn})

	release := make(chan struct{})
	cfg := consumerConfig("doomed", consup.TopicSubscription{Topic: "doomed.work"})
	cfg.Handler = func(_ /* ctx */ context.Context, _ /* msg */ *nats.Msg) error {
		<-release

		return nil
	}

	ctrl, err := consup.New(cfg, reg, consup.WithLogger(consuptest.NewTestLogger(t)))
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(context.Background())
	require.NoError(t, ctrl.Start(runCtx))
	waitConnected(t, ctrl)
	require.NoError(t, conn.Flush())

	pub := consuptest.Connect(t, ns)
	require.NoError(t, pub.Publish("doomed.work", []byte("job")))
	require.NoError(t, pub.Flush())

	require.Eventually(t, func() bool {
		return ctrl.Pending() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// Abnormal termination: no drain, the controller stops with the
	// handler still blocked
	cancel()

	select {
	case <-ctrl.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("controller did not terminate on context cancellation")
	}

	require.Equal(t, consup.StateStopped, ctrl.State())
	require.ErrorIs(t, ctrl.Err(), context.Canceled)

	// Release the stranded handler so its goroutine can exit
	close(release)
}
