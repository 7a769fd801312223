package sisago

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sisago/partition"
	"github.com/hupe1980/sisago/privacy"
	"github.com/hupe1980/sisago/record"
	"github.com/hupe1980/sisago/resource"
	"github.com/hupe1980/sisago/tfidf"
)

// shard pairs a shard ID with its exclusively owned retrieval model.
// The RWMutex is the isolation boundary: queries hold the read lock,
// retrains hold the write lock for the whole mutate+train window, so a
// dirty shard (membership changed, model not yet rebuilt) is never
// visible to a query.
type shard struct {
	id    int
	mu    sync.RWMutex
	model *tfidf.Model
}

// QueryResult is the aggregated outcome of a query across all shards.
type QueryResult struct {
	// Distance is the minimum cosine distance observed across shards.
	Distance float32
	// RecordID is the record achieving the minimum distance.
	RecordID record.ID
	// ShardID is the shard achieving the minimum distance (ties broken
	// by lowest shard ID). -1 if every shard is empty.
	ShardID int
	// Decision is the privacy gate's classification of Distance.
	Decision privacy.Decision
	// PerShard holds every shard's distance, indexed by shard ID.
	// Empty shards report tfidf.MaxDistance.
	PerShard []float32
}

// UnlearnReport describes the outcome of an unlearning operation.
type UnlearnReport struct {
	// RemovedRecordIDs is the set of records removed from the index.
	RemovedRecordIDs *roaring.Bitmap
	// AffectedShardIDs lists the shards that were retrained, sorted.
	AffectedShardIDs []int
}

// VerifyReport is the outcome of a forgetting verification. Incomplete
// unlearning is reported here as data, never as an error.
type VerifyReport struct {
	Clean           bool
	OffendingShards []int
}

// Index owns the partition and all shard models and is the sole
// mutation point for unlearning.
type Index struct {
	store  *record.Store
	assign *partition.Assignment
	shards []*shard
	pool   *WorkerPool
	gate   privacy.Gate

	ctrl    *resource.Controller
	logger  *Logger
	metrics MetricsCollector
	optFns  []Option // retained for Rebuild

	// assignMu guards the assignment bookkeeping (membership lists and
	// the record->shard mapping). Model state is guarded per shard.
	assignMu sync.Mutex
	closed   atomic.Bool
}

// Build constructs an Index: the records are partitioned round-robin
// into numShards disjoint shards and every shard trains its own TF-IDF
// model. Training jobs are independent and run in parallel on the
// index's worker pool.
//
// Build fails fast with ErrInvalidConfiguration (empty record set,
// shard count outside [1, len(records)], duplicate record IDs) and
// never leaves a half-initialized Index behind.
func Build(ctx context.Context, records []record.Record, numShards int, optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)
	start := time.Now()

	ix, err := build(ctx, records, numShards, o, optFns)

	o.metricsCollector.RecordBuild(numShards, len(records), time.Since(start), err)
	o.logger.LogBuild(ctx, numShards, len(records), err)
	return ix, err
}

func build(ctx context.Context, records []record.Record, numShards int, o options, optFns []Option) (*Index, error) {
	if len(records) == 0 {
		return nil, ErrEmptyRecordSet
	}

	store, err := record.NewStore(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	assign, err := partition.RoundRobin(store.IDs(), numShards)
	if err != nil {
		return nil, translateError(err)
	}
	if err := assign.VerifyCoverage(store.Bitmap()); err != nil {
		return nil, err
	}

	poolSize := o.poolSize
	if poolSize <= 0 {
		poolSize = numShards
		if procs := runtime.GOMAXPROCS(0); procs > poolSize {
			poolSize = procs
		}
	}

	ix := &Index{
		store:   store,
		assign:  assign,
		shards:  make([]*shard, numShards),
		pool:    NewWorkerPool(poolSize),
		gate:    privacy.NewGate(o.threshold),
		ctrl:    o.controller,
		logger:  o.logger,
		metrics: o.metricsCollector,
		optFns:  optFns,
	}
	for i := range ix.shards {
		ix.shards[i] = &shard{id: i}
	}

	if err := ix.trainAll(ctx); err != nil {
		ix.pool.Close()
		return nil, err
	}

	return ix, nil
}

// trainAll trains every shard model in parallel. There is no
// cross-shard dependency.
func (ix *Index) trainAll(ctx context.Context) error {
	errCh := make(chan error, len(ix.shards))

	for i := range ix.shards {
		shardIdx := i
		if err := ix.pool.Submit(ctx, func() {
			errCh <- ix.retrain(ctx, shardIdx)
		}); err != nil {
			return fmt.Errorf("worker pool submit failed: %w", err)
		}
	}

	var errs []error
	for range ix.shards {
		select {
		case err := <-errCh:
			if err != nil {
				errs = append(errs, err)
			}
		case <-ctx.Done():
			return fmt.Errorf("build cancelled: %w", ctx.Err())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("parallel training failed (%d/%d shards): %v", len(errs), len(ix.shards), errs)
	}
	return nil
}

// retrain rebuilds one shard's model from its current membership.
// The shard's write lock is held for the whole window so the dirty
// state is never observable.
func (ix *Index) retrain(ctx context.Context, shardIdx int) error {
	if err := ix.ctrl.AcquireRetrain(ctx); err != nil {
		return fmt.Errorf("shard %d: %w", shardIdx, err)
	}
	defer ix.ctrl.ReleaseRetrain()

	s := ix.shards[shardIdx]
	s.mu.Lock()
	defer s.mu.Unlock()

	ix.assignMu.Lock()
	members := ix.assign.Members(shardIdx)
	ix.assignMu.Unlock()

	s.model = tfidf.Train(ix.docsFor(members))
	return nil
}

func (ix *Index) docsFor(members []record.ID) []tfidf.Document {
	docs := make([]tfidf.Document, 0, len(members))
	for _, id := range members {
		blob, ok := ix.store.Blob(id)
		if !ok {
			continue
		}
		docs = append(docs, tfidf.Document{ID: id, Text: blob})
	}
	return docs
}

type shardAnswer struct {
	shardIdx int
	dist     float32
	id       record.ID
	ok       bool
}

// Query consults every shard model in parallel and aggregates: the
// global minimum distance wins, ties broken by lowest shard ID
// regardless of completion order. The index is exactly as leaky as its
// single most confident shard.
//
// Query never fails on absence of a match; it returns the
// best-available (possibly maximal) distance.
func (ix *Index) Query(ctx context.Context, text string) (QueryResult, error) {
	start := time.Now()
	res, err := ix.query(ctx, text)
	ix.metrics.RecordQuery(time.Since(start), err)
	ix.logger.LogQuery(ctx, res.Distance, res.ShardID, err)
	return res, err
}

func (ix *Index) query(ctx context.Context, text string) (QueryResult, error) {
	if ix.closed.Load() {
		return QueryResult{}, ErrIndexClosed
	}

	numShards := len(ix.shards)
	answersCh := make(chan shardAnswer, numShards)

	for i := 0; i < numShards; i++ {
		shardIdx := i
		s := ix.shards[i]

		if err := ix.pool.Submit(ctx, func() {
			s.mu.RLock()
			dist, id, ok := s.model.Query(text)
			s.mu.RUnlock()

			select {
			case answersCh <- shardAnswer{shardIdx: shardIdx, dist: dist, id: id, ok: ok}:
			case <-ctx.Done():
			}
		}); err != nil {
			return QueryResult{}, fmt.Errorf("worker pool submit failed: %w", err)
		}
	}

	// Collect into a shard-indexed slice so the reduction below is
	// deterministic regardless of completion order.
	answers := make([]shardAnswer, numShards)
	for i := 0; i < numShards; i++ {
		select {
		case a := <-answersCh:
			answers[a.shardIdx] = a
		case <-ctx.Done():
			return QueryResult{}, fmt.Errorf("query cancelled: %w", ctx.Err())
		}
	}

	res := QueryResult{
		Distance: tfidf.MaxDistance,
		ShardID:  -1,
		PerShard: make([]float32, numShards),
	}
	for i, a := range answers {
		res.PerShard[i] = a.dist
		// Strict less-than: the lowest shard ID wins ties.
		if a.ok && (res.ShardID < 0 || a.dist < res.Distance) {
			res.Distance = a.dist
			res.RecordID = a.id
			res.ShardID = i
		}
	}
	res.Decision = ix.gate.Classify(res.Distance)

	return res, nil
}

// FindShardsContaining returns the sorted, distinct IDs of shards that
// still hold records matching the given identity. An unknown identity
// yields an empty slice; that is a no-match signal, not an error.
func (ix *Index) FindShardsContaining(identity string) []int {
	matched := ix.store.MatchIdentity(identity)

	ix.assignMu.Lock()
	defer ix.assignMu.Unlock()

	seen := make(map[int]bool)
	it := matched.Iterator()
	for it.HasNext() {
		if shardIdx, ok := ix.assign.ShardOf(record.ID(it.Next())); ok {
			seen[shardIdx] = true
		}
	}

	out := make([]int, 0, len(seen))
	for shardIdx := range seen {
		out = append(out, shardIdx)
	}
	sort.Ints(out)
	return out
}

// Unlearn removes every record matching the given identity from its
// owning shard(s) and retrains only those shards with their reduced
// membership. All other shard models are left untouched, bit-identical
// to before the call. Cost scales with the number of affected shards,
// not the full record set.
//
// An identity with no matching records is a no-op: zero affected
// shards, nil error.
func (ix *Index) Unlearn(ctx context.Context, identity string) (*UnlearnReport, error) {
	start := time.Now()
	report, err := ix.unlearn(ctx, identity)

	removed, affected := 0, 0
	if report != nil {
		removed = int(report.RemovedRecordIDs.GetCardinality())
		affected = len(report.AffectedShardIDs)
	}
	ix.metrics.RecordUnlearn(removed, affected, time.Since(start), err)
	ix.logger.LogUnlearn(ctx, identity, removed, affected, err)
	return report, err
}

func (ix *Index) unlearn(ctx context.Context, identity string) (*UnlearnReport, error) {
	if ix.closed.Load() {
		return nil, ErrIndexClosed
	}

	matched := ix.store.MatchIdentity(identity)

	// Group live matches by owning shard.
	ix.assignMu.Lock()
	byShard := make(map[int][]record.ID)
	it := matched.Iterator()
	for it.HasNext() {
		id := record.ID(it.Next())
		if shardIdx, ok := ix.assign.ShardOf(id); ok {
			byShard[shardIdx] = append(byShard[shardIdx], id)
		}
	}
	ix.assignMu.Unlock()

	report := &UnlearnReport{
		RemovedRecordIDs: roaring.New(),
		AffectedShardIDs: []int{},
	}
	if len(byShard) == 0 {
		return report, nil
	}

	// Retrain affected shards in parallel; unlearns on disjoint shard
	// sets may run concurrently, the per-shard write lock serializes
	// retrains of the same shard.
	var wg sync.WaitGroup
	var reportMu sync.Mutex
	errCh := make(chan error, len(byShard))
	for shardIdx, ids := range byShard {
		wg.Add(1)
		go func(shardIdx int, ids []record.ID) {
			defer wg.Done()

			if err := ix.ctrl.AcquireRetrain(ctx); err != nil {
				errCh <- fmt.Errorf("shard %d: %w", shardIdx, err)
				return
			}
			defer ix.ctrl.ReleaseRetrain()

			s := ix.shards[shardIdx]
			s.mu.Lock()
			defer s.mu.Unlock()

			ix.assignMu.Lock()
			var removed []record.ID
			for _, id := range ids {
				// A concurrent unlearn of an overlapping identity may
				// have removed the record already; Remove is a no-op
				// then.
				if ix.assign.Remove(id) {
					removed = append(removed, id)
				}
			}
			members := ix.assign.Members(shardIdx)
			ix.assignMu.Unlock()

			// The shard is dirty from the membership change until the
			// model swap; the held write lock keeps it unqueryable.
			s.model = tfidf.Train(ix.docsFor(members))

			reportMu.Lock()
			for _, id := range removed {
				report.RemovedRecordIDs.Add(uint32(id))
			}
			if len(removed) > 0 {
				report.AffectedShardIDs = append(report.AffectedShardIDs, shardIdx)
			}
			reportMu.Unlock()
		}(shardIdx, ids)
	}
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, fmt.Errorf("unlearn %q: %w", identity, err)
	}

	sort.Ints(report.AffectedShardIDs)

	// The partition invariant (disjointness, shard-local consistency)
	// must survive every mutation.
	ix.assignMu.Lock()
	err := ix.assign.Verify()
	ix.assignMu.Unlock()
	if err != nil {
		return nil, err
	}

	return report, nil
}

// VerifyForgotten checks the post-condition of Unlearn: no shard may
// still hold a record matching the identity, and probing the identity
// through the privacy gate must not produce a confident match against
// such a record. Residual leakage is reported as data, not as an
// error.
func (ix *Index) VerifyForgotten(ctx context.Context, identity string) (*VerifyReport, error) {
	start := time.Now()

	offending := ix.FindShardsContaining(identity)

	// Probe the vector spaces: bookkeeping may be clean while a stale
	// model still answers confidently.
	res, err := ix.query(ctx, identity)
	if err != nil {
		return nil, err
	}
	if res.Decision == privacy.ConfidentMatch {
		if matched := ix.store.MatchIdentity(identity); matched.Contains(uint32(res.RecordID)) {
			offending = appendShard(offending, res.ShardID)
		}
	}

	report := &VerifyReport{
		Clean:           len(offending) == 0,
		OffendingShards: offending,
	}
	ix.metrics.RecordVerify(report.Clean, time.Since(start))
	ix.logger.LogVerify(ctx, identity, report.Clean, len(offending))
	return report, nil
}

// appendShard inserts id into the sorted slice if not present.
func appendShard(shards []int, id int) []int {
	i := sort.SearchInts(shards, id)
	if i < len(shards) && shards[i] == id {
		return shards
	}
	shards = append(shards, 0)
	copy(shards[i+1:], shards[i:])
	shards[i] = id
	return shards
}

// ShardMembership returns a read-only view of the current partition:
// shard ID to ordered member record IDs. The returned slices are
// copies.
func (ix *Index) ShardMembership() map[int][]record.ID {
	ix.assignMu.Lock()
	defer ix.assignMu.Unlock()

	out := make(map[int][]record.ID, len(ix.shards))
	for i := range ix.shards {
		out[i] = ix.assign.Members(i)
	}
	return out
}

// Rebuild constructs a fresh Index over the original record universe
// with the given shard count, reusing this index's options. It
// replaces the implicit "reset the global demo state" pattern with an
// explicit owned value; the receiver is left untouched.
func (ix *Index) Rebuild(ctx context.Context, numShards int) (*Index, error) {
	return Build(ctx, ix.store.Records(), numShards, ix.optFns...)
}

// NumShards returns the number of shards in the index.
func (ix *Index) NumShards() int {
	return len(ix.shards)
}

// NumRecords returns the size of the original record universe.
func (ix *Index) NumRecords() int {
	return ix.store.Len()
}

// Gate returns the privacy gate applied to aggregated query results.
func (ix *Index) Gate() privacy.Gate {
	return ix.gate
}

// Close releases the index's worker pool. Subsequent queries and
// unlearns return ErrIndexClosed. Close is idempotent.
func (ix *Index) Close() error {
	if !ix.closed.CompareAndSwap(false, true) {
		return nil
	}
	ix.pool.Close()
	return nil
}
