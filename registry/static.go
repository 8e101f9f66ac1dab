package registry

import (
	"sync"

	"github.com/nats-io/nats.go"
)

// Static implements a connection registry with a fixed name mapping.
type Static struct {
	mu    sync.RWMutex
	conns map[string]*nats.Conn
}

var _ Registry = (*Static)(nil)

// NewStatic creates a new static connection registry.
//
// The registry holds a fixed name-to-connection mapping known at startup.
// Useful for applications that open their connections once during boot.
//
// Parameters:
//   - conns: Initial name-to-connection mapping (may be nil)
//
// Returns:
//   - *Static: Initialized static registry
//
// Example:
//
//	conn, _ := nats.Connect(nats.DefaultURL)
//	reg := registry.NewStatic(map[string]*nats.Conn{"orders": conn})
//	ctrl, err := consup.New(&cfg, reg)
//	if err != nil { /* handle */ }
func NewStatic(conns map[string]*nats.Conn) *Static {
	copied := make(map[string]*nats.Conn, len(conns))
	for name, conn := range conns {
		copied[name] = conn
	}

	return &Static{conns: copied}
}

// Lookup returns the connection registered under name.
//
// Returns:
//   - *nats.Conn: The registered connection, nil when absent
//   - bool: true if an entry exists for name, false otherwise
func (s *Static) Lookup(name string) (*nats.Conn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn, ok := s.conns[name]

	return conn, ok
}

// Set registers or replaces the connection under name.
//
// This allows the static registry to simulate connections coming and going,
// which is useful for testing reconnect scenarios.
//
// Parameters:
//   - name: Logical connection name
//   - conn: Connection to register
func (s *Static) Set(name string, conn *nats.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[name] = conn
}

// Remove deletes the entry under name, if any.
//
// Parameters:
//   - name: Logical connection name
func (s *Static) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, name)
}
