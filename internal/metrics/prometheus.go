package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yonashaile/consup/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are registered lazily on first use so that constructing the
// collector never panics on duplicate registration in tests.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Controller metrics
	ctrlStateTransitions  *prometheus.CounterVec
	ctrlTransitionLatency prometheus.Histogram
	ctrlConnectAttempts   *prometheus.CounterVec
	ctrlConnectionsLost   *prometheus.CounterVec
	ctrlSubscriptions     prometheus.Gauge
	ctrlPoolRestarts      prometheus.Counter
	ctrlDrainDuration     prometheus.Histogram

	// Dispatch metrics
	dispUnitsStarted   *prometheus.CounterVec
	dispUnitResults    *prometheus.CounterVec
	dispUnitDuration   *prometheus.HistogramVec
	dispUnitPanics     *prometheus.CounterVec
	dispResultsDropped prometheus.Counter
	dispPendingUnits   prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "consup" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "consup"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.ctrlStateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "state_transitions_total",
			Help:      "Total controller state transitions by source and target state.",
		}, []string{"from", "to"})

		p.ctrlTransitionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "state_transition_seconds",
			Help:      "Observed state transition durations in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		})

		p.ctrlConnectAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "connect_attempts_total",
			Help:      "Total connection lookup attempts by connection name and result.",
		}, []string{"connection", "result"})

		p.ctrlConnectionsLost = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "connections_lost_total",
			Help:      "Total losses of the monitored connection by connection name.",
		}, []string{"connection"})

		p.ctrlSubscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "active_subscriptions",
			Help:      "Current number of established topic subscriptions.",
		})

		p.ctrlPoolRestarts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "pool_restarts_total",
			Help:      "Total dispatch pool recreations after unexpected pool termination.",
		})

		p.ctrlDrainDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "drain_duration_seconds",
			Help:      "Time spent draining in-flight work during orderly shutdown.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		})

		p.dispUnitsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "units_started_total",
			Help:      "Total units of work submitted to the pool by label.",
		}, []string{"label"})

		p.dispUnitResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "units_completed_total",
			Help:      "Total unit completions by label and result (success|failure).",
		}, []string{"label", "result"})

		p.dispUnitDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "unit_duration_seconds",
			Help:      "Unit of work execution time in seconds by label.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
		}, []string{"label"})

		p.dispUnitPanics = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "unit_panics_total",
			Help:      "Total units of work terminated by a recovered panic, by label.",
		}, []string{"label"})

		p.dispResultsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "results_dropped_total",
			Help:      "Unit results dropped because the results channel was full.",
		})

		p.dispPendingUnits = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "pending_units",
			Help:      "Current number of in-flight units of work.",
		})

		p.reg.MustRegister(p.ctrlStateTransitions)
		p.reg.MustRegister(p.ctrlTransitionLatency)
		p.reg.MustRegister(p.ctrlConnectAttempts)
		p.reg.MustRegister(p.ctrlConnectionsLost)
		p.reg.MustRegister(p.ctrlSubscriptions)
		p.reg.MustRegister(p.ctrlPoolRestarts)
		p.reg.MustRegister(p.ctrlDrainDuration)
		p.reg.MustRegister(p.dispUnitsStarted)
		p.reg.MustRegister(p.dispUnitResults)
		p.reg.MustRegister(p.dispUnitDuration)
		p.reg.MustRegister(p.dispUnitPanics)
		p.reg.MustRegister(p.dispResultsDropped)
		p.reg.MustRegister(p.dispPendingUnits)
	})
}

// ControllerMetrics implementation

// RecordStateTransition records a controller state transition and its duration.
func (p *PrometheusCollector) RecordStateTransition(from, to types.State, duration float64) {
	p.ensureRegistered()
	p.ctrlStateTransitions.WithLabelValues(from.String(), to.String()).Inc()
	p.ctrlTransitionLatency.Observe(duration)
}

// RecordConnectAttempt records a connection lookup attempt outcome.
func (p *PrometheusCollector) RecordConnectAttempt(connectionName string, success bool) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.ctrlConnectAttempts.WithLabelValues(connectionName, result).Inc()
}

// RecordConnectionLost increments the connection lost counter.
func (p *PrometheusCollector) RecordConnectionLost(connectionName string) {
	p.ensureRegistered()
	p.ctrlConnectionsLost.WithLabelValues(connectionName).Inc()
}

// RecordActiveSubscriptions sets the active subscription gauge.
func (p *PrometheusCollector) RecordActiveSubscriptions(count int) {
	p.ensureRegistered()
	p.ctrlSubscriptions.Set(float64(count))
}

// RecordPoolRestart increments the pool restart counter.
func (p *PrometheusCollector) RecordPoolRestart() {
	p.ensureRegistered()
	p.ctrlPoolRestarts.Inc()
}

// RecordDrainDuration observes the shutdown drain duration.
func (p *PrometheusCollector) RecordDrainDuration(duration float64) {
	p.ensureRegistered()
	p.ctrlDrainDuration.Observe(duration)
}

// DispatchMetrics implementation

// RecordUnitStarted increments the units started counter for the label.
func (p *PrometheusCollector) RecordUnitStarted(label string) {
	p.ensureRegistered()
	p.dispUnitsStarted.WithLabelValues(label).Inc()
}

// RecordUnitCompleted records a unit completion outcome and its duration.
func (p *PrometheusCollector) RecordUnitCompleted(label string, success bool, duration float64) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.dispUnitResults.WithLabelValues(label, result).Inc()
	p.dispUnitDuration.WithLabelValues(label).Observe(duration)
}

// RecordUnitPanic increments the unit panic counter for the label.
func (p *PrometheusCollector) RecordUnitPanic(label string) {
	p.ensureRegistered()
	p.dispUnitPanics.WithLabelValues(label).Inc()
}

// RecordResultDropped increments the dropped results counter.
func (p *PrometheusCollector) RecordResultDropped() {
	p.ensureRegistered()
	p.dispResultsDropped.Inc()
}

// RecordPendingUnits sets the pending units gauge.
func (p *PrometheusCollector) RecordPendingUnits(count int) {
	p.ensureRegistered()
	p.dispPendingUnits.Set(float64(count))
}
