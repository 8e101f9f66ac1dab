package types

// State represents the controller lifecycle state.
//
// States follow a defined progression during normal operation:
//
//	StateInit → StateDisconnected → StateConnected → StateShuttingDown → StateStopped
//
// When the connection is lost:
//
//	StateConnected → StateDisconnected → StateConnected
//
// StateStopped is terminal.
type State int

const (
	// StateInit is the initial state before the controller starts.
	StateInit State = iota

	// StateDisconnected indicates the controller is waiting for a usable
	// connection, retrying the lookup on a fixed interval.
	StateDisconnected

	// StateConnected indicates all subscriptions are established and
	// messages are being dispatched.
	StateConnected

	// StateShuttingDown indicates an orderly shutdown is in progress:
	// subscriptions are closed and in-flight work is draining.
	StateShuttingDown

	// StateStopped indicates the controller has terminated.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
