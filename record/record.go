// Package record provides the immutable record universe the index is
// built over.
//
// A Record is an identity entity with a stable ID, a display name and a
// set of named string attributes. Records never mutate after creation;
// unlearning removes whole records, never individual fields.
package record

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// ID is the stable, user-facing identifier of a record.
// It is strictly 32-bit so record sets can be held in roaring bitmaps.
type ID uint32

// Record represents a single identity record.
//
// Attributes maps attribute names (e.g. "email", "phone", "employer") to
// their string values. Treat Record values as immutable once handed to a
// Store.
type Record struct {
	ID         ID
	Name       string
	Attributes map[string]string
}

// Blob derives the canonical text representation used as the unit of
// retrieval. The derivation is deterministic: the display name followed
// by "key: value" pairs in sorted key order.
func (r Record) Blob() string {
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(r.Name)
	for _, k := range keys {
		sb.WriteString(". ")
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(r.Attributes[k])
	}
	return sb.String()
}

// Store holds the immutable universe of records in insertion order.
//
// The Store is created once at index construction and never mutates;
// unlearning changes shard membership, not the universe itself.
type Store struct {
	records []Record
	byID    map[ID]int
	blobs   []string // canonical blobs, cached at construction
	lowered []string // lowercased blobs for identity matching
	ids     *roaring.Bitmap
}

// NewStore creates a Store over the given records, preserving their
// order. It fails if the record set is empty or contains duplicate IDs.
func NewStore(records []Record) (*Store, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("record: empty record set")
	}

	s := &Store{
		records: make([]Record, len(records)),
		byID:    make(map[ID]int, len(records)),
		blobs:   make([]string, len(records)),
		lowered: make([]string, len(records)),
		ids:     roaring.New(),
	}
	copy(s.records, records)

	for i, r := range s.records {
		if _, ok := s.byID[r.ID]; ok {
			return nil, fmt.Errorf("record: duplicate record ID %d", r.ID)
		}
		s.byID[r.ID] = i
		s.blobs[i] = r.Blob()
		s.lowered[i] = strings.ToLower(s.blobs[i])
		s.ids.Add(uint32(r.ID))
	}

	return s, nil
}

// Len returns the number of records in the universe.
func (s *Store) Len() int {
	return len(s.records)
}

// Get returns the record with the given ID.
func (s *Store) Get(id ID) (Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Blob returns the cached canonical blob for the given ID.
func (s *Store) Blob(id ID) (string, bool) {
	i, ok := s.byID[id]
	if !ok {
		return "", false
	}
	return s.blobs[i], true
}

// Records returns a copy of all records in insertion order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// IDs returns all record IDs in insertion order.
func (s *Store) IDs() []ID {
	ids := make([]ID, len(s.records))
	for i, r := range s.records {
		ids[i] = r.ID
	}
	return ids
}

// Bitmap returns a copy of the full ID set.
func (s *Store) Bitmap() *roaring.Bitmap {
	return s.ids.Clone()
}

// MatchIdentity returns the set of record IDs whose canonical blob
// mentions the given identity. Matching is a case-insensitive substring
// test; an empty identity matches nothing.
func (s *Store) MatchIdentity(identity string) *roaring.Bitmap {
	matched := roaring.New()
	needle := strings.ToLower(strings.TrimSpace(identity))
	if needle == "" {
		return matched
	}
	for i, blob := range s.lowered {
		if strings.Contains(blob, needle) {
			matched.Add(uint32(s.records[i].ID))
		}
	}
	return matched
}
