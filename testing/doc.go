// Package testing provides test utilities for the consup library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for integration testing. It follows Go's convention
// of providing testing utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single in-process NATS server plus a connected client
//   - Connect: Additional client connections to the embedded server
//   - NewTestLogger: types.Logger that writes through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    consuptest "github.com/yonashaile/consup/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := consuptest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
