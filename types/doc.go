// Package types provides core type definitions and interfaces for the consup library.
//
// This package contains shared types that are used across multiple packages in the
// consup library. By keeping these types in a separate package, we avoid import cycles
// between the main consup package and its internal implementations.
//
// Key types:
//   - State: Controller lifecycle state
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
//   - Hooks: Lifecycle event callbacks
package types
