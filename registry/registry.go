package registry

import "github.com/nats-io/nats.go"

// Registry resolves logical connection names to NATS connections.
//
// The controller looks up its connection by name on every connect attempt,
// so a registry entry may appear, disappear, or be replaced at any time.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Lookup returns the connection registered under name.
	//
	// Returns:
	//   - *nats.Conn: The registered connection, nil when absent
	//   - bool: true if an entry exists for name, false otherwise
	Lookup(name string) (*nats.Conn, bool)
}
