// Package registry provides built-in connection registry implementations.
//
// Connection registries resolve logical connection names to live NATS
// connections. The package includes:
//
//   - Static: Fixed name-to-connection mapping
//   - Dynamic: Concurrent mapping with runtime registration
//
// Custom registries can be implemented by satisfying the Registry interface.
package registry
