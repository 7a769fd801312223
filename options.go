package sisago

import (
	"log/slog"

	"github.com/hupe1980/sisago/privacy"
	"github.com/hupe1980/sisago/resource"
)

type options struct {
	threshold        float32
	poolSize         int
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures index construction behavior.
type Option func(*options)

// WithPrivacyThreshold configures the confidence threshold of the
// privacy gate applied to aggregated query results. Distances below
// the threshold are treated as confident identity matches.
//
// If threshold <= 0, privacy.DefaultThreshold is used.
func WithPrivacyThreshold(threshold float32) Option {
	return func(o *options) {
		o.threshold = threshold
	}
}

// WithPoolSize configures the worker pool used for parallel shard
// training and query fan-out. If size <= 0, the pool defaults to
// max(numShards, GOMAXPROCS).
func WithPoolSize(size int) Option {
	return func(o *options) {
		o.poolSize = size
	}
}

// WithResourceController bounds concurrent shard retrains during build
// and unlearning. Pass nil to retrain without limits.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threshold:        privacy.DefaultThreshold,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
