// Package consup provides a supervised NATS message consumer that resolves
// its connection by name and isolates message handling in units of work.
//
// Consup never dials NATS itself. It borrows a named connection from a
// registry, retries the lookup until the connection exists, subscribes to
// the configured topics, and dispatches every message in its own
// panic-isolated goroutine. When the connection closes, consumption is
// suspended and the lookup starts over. Orderly shutdown tears down the
// subscriptions first and then waits for all in-flight work to finish.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/yonashaile/consup"
//
//	cfg := consup.Config{
//	    ConnectionName: "orders",
//	    Subscriptions: []consup.TopicSubscription{
//	        {Topic: "orders.created"},
//	        {Topic: "orders.work", QueueGroup: "billing"},
//	    },
//	    Handler: func(ctx context.Context, msg *nats.Msg) error {
//	        return process(msg.Data)
//	    },
//	}
//
//	reg := registry.NewStatic(map[string]*nats.Conn{"orders": natsConn})
//	ctrl, err := consup.New(&cfg, reg)
//
//	if err := ctrl.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer ctrl.Stop(context.Background())
//
// # Key Features
//
//   - Borrowed Connections: Connections are resolved by name through a registry, never dialed
//   - Unit-of-Work Isolation: Each message runs in its own goroutine; a panic never takes down the consumer
//   - Transparent Recovery: Connection loss and pool termination are absorbed and retried
//   - Orderly Drain: Shutdown unsubscribes first, then polls until in-flight work finishes
//   - Request/Reply Servers: Optional Server mode publishes handler replies automatically
//
// # Architecture
//
// A controller progresses through a state machine:
//
//	INIT → DISCONNECTED ⇄ CONNECTED → SHUTTING_DOWN → STOPPED
//
// While Disconnected, the registry lookup is retried on a fixed interval.
// While Connected, inbound messages flow through a mailbox into the
// unit-of-work pool, and a watcher goroutine reports connection closure
// back to the run loop.
//
// # Advanced Usage
//
// Request/reply server with options:
//
//	import (
//	    "github.com/yonashaile/consup"
//	    "github.com/yonashaile/consup/registry"
//	)
//
//	type EchoServer struct{}
//
//	func (EchoServer) Request(ctx context.Context, msg *nats.Msg) ([]byte, error) {
//	    return msg.Data, nil
//	}
//
//	hooks := &consup.Hooks{
//	    OnDisconnected: func(ctx context.Context, name string) error {
//	        log.Printf("lost %s, waiting for it to come back", name)
//	        return nil
//	    },
//	}
//
//	ctrl, err := consup.New(&consup.Config{
//	    ConnectionName: "rpc",
//	    Subscriptions:  []consup.TopicSubscription{{Topic: "echo"}},
//	    Server:         EchoServer{},
//	}, reg,
//	    consup.WithHooks(hooks),
//	    consup.WithLogger(logger),
//	)
//
// See the examples/ directory for complete working examples.
package consup
