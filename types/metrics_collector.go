package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	ControllerMetrics
	DispatchMetrics
}

// ControllerMetrics defines metrics for controller-level operations.
type ControllerMetrics interface {
	// RecordStateTransition records a controller state transition event.
	RecordStateTransition(from, to State, duration float64)

	// RecordConnectAttempt records a connection lookup attempt.
	//
	// Parameters:
	//   - connectionName: Registry name the controller looked up
	//   - success: true if a usable connection was found, false otherwise
	RecordConnectAttempt(connectionName string, success bool)

	// RecordConnectionLost records loss of the monitored connection.
	//
	// Parameters:
	//   - connectionName: Registry name of the connection that went down
	RecordConnectionLost(connectionName string)

	// RecordActiveSubscriptions sets the current subscription count (gauge metric).
	//
	// Parameters:
	//   - count: Number of established subscriptions (0 while disconnected)
	RecordActiveSubscriptions(count int)

	// RecordPoolRestart records a dispatch pool recreation after an
	// unexpected pool termination.
	RecordPoolRestart()

	// RecordDrainDuration records the time spent draining in-flight work
	// during orderly shutdown.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordDrainDuration(duration float64)
}

// DispatchMetrics defines metrics for dispatch pool operations.
//
// These metrics are recorded by the pool itself as units are submitted
// and complete, not by the controller observing results.
type DispatchMetrics interface {
	// RecordUnitStarted records the submission of a unit of work.
	//
	// Parameters:
	//   - label: Caller-supplied unit label (typically the message subject)
	RecordUnitStarted(label string)

	// RecordUnitCompleted records the outcome of a finished unit of work.
	//
	// Parameters:
	//   - label: Caller-supplied unit label
	//   - success: true if the unit returned nil and did not panic
	//   - duration: Unit execution time in seconds
	RecordUnitCompleted(label string, success bool, duration float64)

	// RecordUnitPanic records a unit of work that terminated by panicking.
	//
	// Parameters:
	//   - label: Caller-supplied unit label
	RecordUnitPanic(label string)

	// RecordResultDropped records when unit results are dropped due to a
	// slow results consumer.
	RecordResultDropped()

	// RecordPendingUnits sets the current in-flight unit count (gauge metric).
	//
	// Parameters:
	//   - count: Current number of running units
	RecordPendingUnits(count int)
}
