package stress_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yonashaile/consup"
)

// requireStressEnabled skips the test unless long stress tests are explicitly enabled.
//
// Enable by setting environment variable CONSUP_STRESS=1 when invoking `go test`.
// Example:
//
//	CONSUP_STRESS=1 go test -v -timeout 10m ./test/stress
func requireStressEnabled(t *testing.T) {
	t.Helper()
	if os.Getenv("CONSUP_STRESS") != "1" {
		t.Skip("Skipping long stress/perf test (set CONSUP_STRESS=1 to run)")
	}
}

// stopController gracefully stops the controller and waits for its run loop
// to exit so nothing logs through t after the test completes.
func stopController(t *testing.T, ctrl *consup.Controller) {
	t.Helper()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = ctrl.Stop(stopCtx)

	select {
	case <-ctrl.Done():
	case <-time.After(10 * time.Second):
		t.Log("controller did not stop within cleanup timeout")
	}
}
