package testing

import (
	"testing"

	"github.com/yonashaile/consup/types"
)

// NewTestLogger returns a types.Logger that forwards to t.Logf, so controller
// output is attached to the test that produced it.
//
// The controller's run loop keeps logging until Done is closed. Tests must
// stop the controller and wait on Done before completing, otherwise late
// writes panic inside testing.T.
func NewTestLogger(t *testing.T) types.Logger {
	return &testLogger{t: t}
}

type testLogger struct {
	t *testing.T
}

var _ types.Logger = (*testLogger)(nil)

func (l *testLogger) Debug(msg string, keysAndValues ...any) {
	l.t.Logf("DEBUG: %s %v", msg, keysAndValues)
}

func (l *testLogger) Info(msg string, keysAndValues ...any) {
	l.t.Logf("INFO: %s %v", msg, keysAndValues)
}

func (l *testLogger) Warn(msg string, keysAndValues ...any) {
	l.t.Logf("WARN: %s %v", msg, keysAndValues)
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.t.Logf("ERROR: %s %v", msg, keysAndValues)
}
