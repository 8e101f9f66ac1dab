package testing

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// StartEmbeddedNATS starts an in-process NATS server and a client connection
// to it.
//
// The server binds a random port, so parallel tests each get their own
// isolated server without coordination. Startup takes milliseconds and
// requires nothing installed on the machine. Both the server and the
// connection are torn down via t.Cleanup.
//
// The returned server is needed when a test opens additional connections
// (see Connect) or wants the client URL; tests that only need the one
// connection can discard it.
//
// Example:
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := consuptest.StartEmbeddedNATS(t)
//	    // nc is connected and cleaned up automatically
//	}
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := &server.Options{
		Host:  "127.0.0.1",
		Port:  -1,   // random available port
		NoLog: true, // keep server output out of test logs
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("Embedded NATS server not ready within timeout")
	}

	nc := Connect(t, ns)

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// Connect opens an additional client connection to the embedded server.
//
// Controller tests often need several connections to the same server: one
// for the controller to borrow through its registry, one for publishing
// test traffic, and fresh ones to swap into the registry after simulating
// a connection loss.
//
// The connection is closed automatically on test completion; closing it
// earlier from the test is fine.
//
// Parameters:
//   - t: Testing context for logging and cleanup
//   - ns: Embedded server from StartEmbeddedNATS
//
// Returns:
//   - *nats.Conn: Connected NATS client
func Connect(t *testing.T, ns *server.Server) *nats.Conn {
	t.Helper()

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		t.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
	})

	return nc
}
