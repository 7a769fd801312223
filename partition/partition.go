// Package partition implements the deterministic record-to-shard
// assignment and its invariants.
//
// Records are distributed round-robin over the shards in insertion
// order (record i goes to shard i mod N), which makes the assignment
// fully reproducible for a fixed input order and shard count, and
// keeps shard sizes within 1 of each other.
package partition

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/sisago/record"
)

// ErrInvalidShardCount indicates a shard count outside [1, numRecords].
type ErrInvalidShardCount struct {
	NumShards  int
	NumRecords int
}

func (e *ErrInvalidShardCount) Error() string {
	return fmt.Sprintf("invalid shard count %d for %d records", e.NumShards, e.NumRecords)
}

// Assignment maps every record to exactly one shard.
//
// An Assignment is created by RoundRobin and afterwards only shrinks:
// unlearning removes members, it never moves or adds them.
type Assignment struct {
	members [][]record.ID // ordered member lists, indexed by shard
	bitmaps []*roaring.Bitmap
	shardOf map[record.ID]int
}

// RoundRobin assigns the given record IDs to numShards shards in
// round-robin order. The input order defines the assignment.
func RoundRobin(ids []record.ID, numShards int) (*Assignment, error) {
	if numShards < 1 || numShards > len(ids) {
		return nil, &ErrInvalidShardCount{NumShards: numShards, NumRecords: len(ids)}
	}

	a := &Assignment{
		members: make([][]record.ID, numShards),
		bitmaps: make([]*roaring.Bitmap, numShards),
		shardOf: make(map[record.ID]int, len(ids)),
	}
	for i := range a.bitmaps {
		a.bitmaps[i] = roaring.New()
	}

	for i, id := range ids {
		shard := i % numShards
		if _, ok := a.shardOf[id]; ok {
			return nil, fmt.Errorf("partition: duplicate record ID %d", id)
		}
		a.members[shard] = append(a.members[shard], id)
		a.bitmaps[shard].Add(uint32(id))
		a.shardOf[id] = shard
	}

	return a, nil
}

// NumShards returns the number of shards in the assignment.
func (a *Assignment) NumShards() int {
	return len(a.members)
}

// Size returns the current member count of the given shard.
func (a *Assignment) Size(shard int) int {
	return len(a.members[shard])
}

// Members returns a copy of the ordered member list of the given shard.
func (a *Assignment) Members(shard int) []record.ID {
	out := make([]record.ID, len(a.members[shard]))
	copy(out, a.members[shard])
	return out
}

// Bitmap returns a copy of the member set of the given shard.
func (a *Assignment) Bitmap(shard int) *roaring.Bitmap {
	return a.bitmaps[shard].Clone()
}

// ShardOf returns the shard owning the given record ID.
func (a *Assignment) ShardOf(id record.ID) (int, bool) {
	shard, ok := a.shardOf[id]
	return shard, ok
}

// Remove drops a record from its owning shard. Removing an unknown ID
// is a no-op and returns false.
func (a *Assignment) Remove(id record.ID) bool {
	shard, ok := a.shardOf[id]
	if !ok {
		return false
	}
	members := a.members[shard]
	for i, m := range members {
		if m == id {
			a.members[shard] = append(members[:i], members[i+1:]...)
			break
		}
	}
	a.bitmaps[shard].Remove(uint32(id))
	delete(a.shardOf, id)
	return true
}

// Verify re-checks the partition invariants that must survive every
// mutation: shard member sets are pairwise disjoint, duplicate-free,
// and consistent with the reverse mapping. Coverage of the full record
// universe is a build-time property only (removal shrinks coverage) and
// is checked separately by VerifyCoverage.
func (a *Assignment) Verify() error {
	union := roaring.New()
	total := uint64(0)
	for shard, bm := range a.bitmaps {
		if bm.GetCardinality() != uint64(len(a.members[shard])) {
			return fmt.Errorf("partition: shard %d member list and bitmap disagree (%d vs %d)",
				shard, len(a.members[shard]), bm.GetCardinality())
		}
		for _, id := range a.members[shard] {
			if !bm.Contains(uint32(id)) {
				return fmt.Errorf("partition: shard %d member %d missing from bitmap", shard, id)
			}
			if owner, ok := a.shardOf[id]; !ok || owner != shard {
				return fmt.Errorf("partition: record %d owner mapping inconsistent for shard %d", id, shard)
			}
		}
		total += bm.GetCardinality()
		union.Or(bm)
	}
	// Disjoint sets union to the sum of their cardinalities.
	if union.GetCardinality() != total {
		return fmt.Errorf("partition: shards overlap (union %d, total %d)", union.GetCardinality(), total)
	}
	if total != uint64(len(a.shardOf)) {
		return fmt.Errorf("partition: owner mapping has %d entries, shards hold %d", len(a.shardOf), total)
	}
	return nil
}

// VerifyCoverage checks the build-time invariants on top of Verify:
// the union of all shards equals the given universe and shard sizes
// differ by at most 1.
func (a *Assignment) VerifyCoverage(universe *roaring.Bitmap) error {
	if err := a.Verify(); err != nil {
		return err
	}

	union := roaring.New()
	for _, bm := range a.bitmaps {
		union.Or(bm)
	}
	if !union.Equals(universe) {
		return fmt.Errorf("partition: shard union does not cover the record universe")
	}

	minSize, maxSize := len(a.members[0]), len(a.members[0])
	for _, m := range a.members[1:] {
		if len(m) < minSize {
			minSize = len(m)
		}
		if len(m) > maxSize {
			maxSize = len(m)
		}
	}
	if maxSize-minSize > 1 {
		return fmt.Errorf("partition: unbalanced shards (min %d, max %d)", minSize, maxSize)
	}
	return nil
}
