// Package dispatch provides the isolated unit-of-work pool for message handling.
//
// The package includes:
//
//   - Pool: Fire-and-forget execution of units of work, one goroutine each
//
// Every submitted unit runs in its own goroutine with panic isolation. A
// failing or panicking unit never affects other units or the submitter; its
// outcome is reported as a Result on the pool's results channel.
package dispatch
