package consup

import (
	"github.com/yonashaile/consup/types"
)

// controllerOptions holds optional dependencies configured via Option values.
type controllerOptions struct {
	logger  types.Logger
	metrics types.MetricsCollector
	hooks   *types.Hooks
}

// Option is a functional option for configuring a Controller.
type Option func(*controllerOptions)

// WithLogger sets a custom logger for the controller.
// When omitted, the controller is silent.
//
// Example:
//
//	logger := myZapAdapter // any types.Logger implementation
//	ctrl, err := consup.New(cfg, reg, consup.WithLogger(logger))
func WithLogger(logger types.Logger) Option {
	return func(o *controllerOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a custom metrics collector for the controller.
// When omitted, metrics are discarded.
//
// Example:
//
//	collector := myPrometheusCollector
//	ctrl, err := consup.New(cfg, reg, consup.WithMetrics(collector))
func WithMetrics(collector types.MetricsCollector) Option {
	return func(o *controllerOptions) {
		o.metrics = collector
	}
}

// WithHooks sets lifecycle callbacks for the controller.
// Hooks run in their own goroutine and must not block indefinitely.
//
// Example:
//
//	hooks := &consup.Hooks{
//		OnConnected: func(ctx context.Context, name string) error {
//			log.Printf("consuming from %s", name)
//			return nil
//		},
//	}
//	ctrl, err := consup.New(cfg, reg, consup.WithHooks(hooks))
func WithHooks(hooks *types.Hooks) Option {
	return func(o *controllerOptions) {
		o.hooks = hooks
	}
}
