package registry

import (
	"github.com/nats-io/nats.go"
	"github.com/puzpuzpuz/xsync/v3"
)

// Dynamic implements a connection registry with lock-free runtime registration.
//
// Unlike Static, Dynamic is built for applications that open and close
// connections while controllers are running: a supervisor can register a
// connection as soon as it is established and deregister it when it is torn
// down, and controllers pick up the change on their next lookup.
type Dynamic struct {
	conns *xsync.MapOf[string, *nats.Conn]
}

var _ Registry = (*Dynamic)(nil)

// NewDynamic creates a new dynamic connection registry.
//
// Returns:
//   - *Dynamic: Initialized empty registry
//
// Example:
//
//	reg := registry.NewDynamic()
//	go func() {
//	    conn, err := nats.Connect(nats.DefaultURL)
//	    if err == nil {
//	        reg.Register("orders", conn)
//	    }
//	}()
//	ctrl, err := consup.New(&cfg, reg)
//	if err != nil { /* handle */ }
func NewDynamic() *Dynamic {
	return &Dynamic{conns: xsync.NewMapOf[string, *nats.Conn]()}
}

// Lookup returns the connection registered under name.
//
// Returns:
//   - *nats.Conn: The registered connection, nil when absent
//   - bool: true if an entry exists for name, false otherwise
func (d *Dynamic) Lookup(name string) (*nats.Conn, bool) {
	return d.conns.Load(name)
}

// Register registers or replaces the connection under name.
//
// Parameters:
//   - name: Logical connection name
//   - conn: Connection to register
func (d *Dynamic) Register(name string, conn *nats.Conn) {
	d.conns.Store(name, conn)
}

// Deregister deletes the entry under name.
//
// Returns:
//   - *nats.Conn: The removed connection, nil when absent
//   - bool: true if an entry was removed, false otherwise
func (d *Dynamic) Deregister(name string) (*nats.Conn, bool) {
	return d.conns.LoadAndDelete(name)
}

// Names returns the names of all registered connections.
//
// The returned slice is a copy in unspecified order.
func (d *Dynamic) Names() []string {
	names := make([]string, 0, d.conns.Size())
	d.conns.Range(func(name string, _ *nats.Conn) bool {
		names = append(names, name)
		return true
	})

	return names
}
