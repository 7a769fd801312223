package sisago

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational
// metrics. Implement this interface to integrate with monitoring
// systems.
type MetricsCollector interface {
	// RecordBuild is called after each build (or rebuild).
	RecordBuild(numShards, numRecords int, duration time.Duration, err error)

	// RecordQuery is called after each aggregated query.
	RecordQuery(duration time.Duration, err error)

	// RecordUnlearn is called after each unlearning operation.
	// removed is the number of removed records, affected the number of
	// retrained shards.
	RecordUnlearn(removed, affected int, duration time.Duration, err error)

	// RecordVerify is called after each forgetting verification.
	RecordVerify(clean bool, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordQuery(time.Duration, error)             {}
func (NoopMetricsCollector) RecordUnlearn(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordVerify(bool, time.Duration)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external
// dependencies.
type BasicMetricsCollector struct {
	BuildCount        atomic.Int64
	BuildErrors       atomic.Int64
	QueryCount        atomic.Int64
	QueryErrors       atomic.Int64
	QueryTotalNanos   atomic.Int64
	UnlearnCount      atomic.Int64
	UnlearnErrors     atomic.Int64
	RecordsForgotten  atomic.Int64
	ShardsRetrained   atomic.Int64
	VerifyCount       atomic.Int64
	VerifyLeaks       atomic.Int64
	UnlearnTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(numShards, numRecords int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordUnlearn implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnlearn(removed, affected int, duration time.Duration, err error) {
	b.UnlearnCount.Add(1)
	b.UnlearnTotalNanos.Add(duration.Nanoseconds())
	b.RecordsForgotten.Add(int64(removed))
	b.ShardsRetrained.Add(int64(affected))
	if err != nil {
		b.UnlearnErrors.Add(1)
	}
}

// RecordVerify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVerify(clean bool, duration time.Duration) {
	b.VerifyCount.Add(1)
	if !clean {
		b.VerifyLeaks.Add(1)
	}
}
