package metrics

import "github.com/yonashaile/consup/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	metrics := metrics.NewNop()
//	ctrl, err := consup.New(&cfg, reg, consup.WithMetrics(metrics))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ControllerMetrics implementation

// RecordStateTransition discards the state transition metric.
func (n *NopMetrics) RecordStateTransition(_ /* from */, _ /* to */ types.State, _ /* duration */ float64) {
	// No-op
}

// RecordConnectAttempt discards the connection attempt metric.
func (n *NopMetrics) RecordConnectAttempt(_ /* connectionName */ string, _ /* success */ bool) {
	// No-op
}

// RecordConnectionLost discards the connection lost metric.
func (n *NopMetrics) RecordConnectionLost(_ /* connectionName */ string) {
	// No-op
}

// RecordActiveSubscriptions discards the subscription count metric.
func (n *NopMetrics) RecordActiveSubscriptions(_ /* count */ int) {
	// No-op
}

// RecordPoolRestart discards the pool restart metric.
func (n *NopMetrics) RecordPoolRestart() {
	// No-op
}

// RecordDrainDuration discards the drain duration metric.
func (n *NopMetrics) RecordDrainDuration(_ /* duration */ float64) {
	// No-op
}

// DispatchMetrics implementation

// RecordUnitStarted discards the unit started metric.
func (n *NopMetrics) RecordUnitStarted(_ /* label */ string) {
	// No-op
}

// RecordUnitCompleted discards the unit completion metric.
func (n *NopMetrics) RecordUnitCompleted(_ /* label */ string, _ /* success */ bool, _ /* duration */ float64) {
	// No-op
}

// RecordUnitPanic discards the unit panic metric.
func (n *NopMetrics) RecordUnitPanic(_ /* label */ string) {
	// No-op
}

// RecordResultDropped discards the result dropped metric.
func (n *NopMetrics) RecordResultDropped() {
	// No-op
}

// RecordPendingUnits discards the pending units metric.
func (n *NopMetrics) RecordPendingUnits(_ /* count */ int) {
	// No-op
}
