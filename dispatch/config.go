package dispatch

import (
	"github.com/yonashaile/consup/internal/logging"
	"github.com/yonashaile/consup/internal/metrics"
	"github.com/yonashaile/consup/types"
)

// DefaultResultBuffer is the default capacity of the pool's results channel.
const DefaultResultBuffer = 256

// Config configures a dispatch Pool.
//
// The zero value is usable: missing dependencies are replaced with no-op
// implementations and ResultBuffer falls back to DefaultResultBuffer.
type Config struct {
	// Logger receives unit lifecycle events. Defaults to a no-op logger.
	Logger types.Logger

	// Metrics records dispatch metrics. Defaults to a no-op collector.
	Metrics types.DispatchMetrics

	// ResultBuffer is the capacity of the results channel. Results are
	// dropped (and counted) when the channel is full, so size this for the
	// consumer's expected lag. Defaults to DefaultResultBuffer.
	ResultBuffer int
}

// setDefaults fills in missing configuration values.
func (cfg *Config) setDefaults() {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNop()
	}
	if cfg.ResultBuffer <= 0 {
		cfg.ResultBuffer = DefaultResultBuffer
	}
}
