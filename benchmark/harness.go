// Package benchmark quantifies the efficiency claim of selective
// unlearning: retraining only the shards an identity touches versus
// rebuilding the entire index from scratch.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/sisago"
	"github.com/hupe1980/sisago/record"
)

// ErrNoSamplesAvailable is returned when Run is called with an empty
// identity sample.
var ErrNoSamplesAvailable = errors.New("no sample identities available")

// CostFunc models the cost of training one shard over recordCount
// records. Injecting a synthetic cost function makes harness runs
// deterministic; without one the harness measures wall-clock time.
type CostFunc func(recordCount int) float64

// LinearCost charges one unit per record trained. The reference cost
// model: TF-IDF training is linear in corpus size.
func LinearCost(recordCount int) float64 {
	return float64(recordCount)
}

// Config describes the index configuration under measurement.
type Config struct {
	Records   []record.Record
	NumShards int
}

// Report holds the per-identity speedups (full rebuild cost divided by
// selective unlearning cost) and their mean.
type Report struct {
	PerIdentity map[string]float64
	MeanSpeedup float64
}

// Harness measures full-rebuild versus selective-unlearn cost for a
// sample of identities.
type Harness struct {
	cost     CostFunc
	indexOpt []sisago.Option
}

// Option configures a Harness.
type Option func(*Harness)

// WithCostFunc replaces wall-clock measurement with a synthetic,
// deterministic cost model.
func WithCostFunc(fn CostFunc) Option {
	return func(h *Harness) {
		h.cost = fn
	}
}

// WithIndexOptions passes options through to the indexes the harness
// builds.
func WithIndexOptions(opts ...sisago.Option) Option {
	return func(h *Harness) {
		h.indexOpt = opts
	}
}

// NewHarness creates a Harness. Without options it measures wall-clock
// time.
func NewHarness(optFns ...Option) *Harness {
	h := &Harness{}
	for _, fn := range optFns {
		if fn != nil {
			fn(h)
		}
	}
	return h
}

// Run measures, for every sampled identity, the cost of a full index
// rebuild against the cost of selectively unlearning that identity,
// and reports per-identity and mean speedups.
//
// An identity whose records span all shards yields a speedup of
// exactly 1.0 under the cost model (selective work equals full work),
// never below it. An identity with no matching records requires no
// selective work and is reported as 1.0.
func (h *Harness) Run(ctx context.Context, cfg Config, identities []string) (*Report, error) {
	if len(identities) == 0 {
		return nil, ErrNoSamplesAvailable
	}

	report := &Report{
		PerIdentity: make(map[string]float64, len(identities)),
	}

	var err error
	if h.cost != nil {
		err = h.runModeled(ctx, cfg, identities, report)
	} else {
		err = h.runTimed(ctx, cfg, identities, report)
	}
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, s := range report.PerIdentity {
		sum += s
	}
	report.MeanSpeedup = sum / float64(len(report.PerIdentity))

	return report, nil
}

// runModeled computes costs from the injected cost model: full cost is
// the training cost summed over all shards, selective cost sums only
// the shards containing the identity (at their pre-removal sizes, so
// retraining the only shard of a 1-shard index costs exactly a full
// rebuild).
func (h *Harness) runModeled(ctx context.Context, cfg Config, identities []string, report *Report) error {
	ix, err := sisago.Build(ctx, cfg.Records, cfg.NumShards, h.indexOpt...)
	if err != nil {
		return fmt.Errorf("benchmark build: %w", err)
	}
	defer ix.Close()

	membership := ix.ShardMembership()

	var full float64
	for _, members := range membership {
		full += h.cost(len(members))
	}

	for _, identity := range identities {
		affected := ix.FindShardsContaining(identity)

		var selective float64
		for _, shardID := range affected {
			selective += h.cost(len(membership[shardID]))
		}

		if selective <= 0 {
			report.PerIdentity[identity] = 1.0
			continue
		}
		report.PerIdentity[identity] = full / selective
	}

	return nil
}

// runTimed measures actual wall-clock durations: a fresh full build as
// the baseline, and a selective Unlearn on a second fresh index as the
// contender. Wall-clock results are inherently noisy; use WithCostFunc
// for deterministic runs.
func (h *Harness) runTimed(ctx context.Context, cfg Config, identities []string, report *Report) error {
	for _, identity := range identities {
		start := time.Now()
		baseline, err := sisago.Build(ctx, cfg.Records, cfg.NumShards, h.indexOpt...)
		if err != nil {
			return fmt.Errorf("benchmark build: %w", err)
		}
		full := time.Since(start)
		baseline.Close()

		ix, err := sisago.Build(ctx, cfg.Records, cfg.NumShards, h.indexOpt...)
		if err != nil {
			return fmt.Errorf("benchmark build: %w", err)
		}
		start = time.Now()
		if _, err := ix.Unlearn(ctx, identity); err != nil {
			ix.Close()
			return fmt.Errorf("benchmark unlearn %q: %w", identity, err)
		}
		selective := time.Since(start)
		ix.Close()

		if selective <= 0 {
			report.PerIdentity[identity] = 1.0
			continue
		}
		report.PerIdentity[identity] = float64(full) / float64(selective)
	}

	return nil
}
