package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBlobDeterministic(t *testing.T) {
	r := Record{
		ID:   1,
		Name: "John Doe",
		Attributes: map[string]string{
			"phone":    "555-0100",
			"email":    "john.doe@example.com",
			"employer": "Acme Corp",
		},
	}

	want := "John Doe. email: john.doe@example.com. employer: Acme Corp. phone: 555-0100"
	assert.Equal(t, want, r.Blob())

	// Map iteration order must not leak into the blob.
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, r.Blob())
	}
}

func TestRecordBlobNoAttributes(t *testing.T) {
	r := Record{ID: 2, Name: "Jane Roe"}
	assert.Equal(t, "Jane Roe", r.Blob())
}

func TestNewStoreEmpty(t *testing.T) {
	_, err := NewStore(nil)
	require.Error(t, err)
}

func TestNewStoreDuplicateID(t *testing.T) {
	_, err := NewStore([]Record{
		{ID: 1, Name: "A"},
		{ID: 1, Name: "B"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestStoreLookup(t *testing.T) {
	s, err := NewStore([]Record{
		{ID: 10, Name: "Alice", Attributes: map[string]string{"email": "alice@example.com"}},
		{ID: 20, Name: "Bob"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []ID{10, 20}, s.IDs())

	r, ok := s.Get(10)
	require.True(t, ok)
	assert.Equal(t, "Alice", r.Name)

	blob, ok := s.Blob(10)
	require.True(t, ok)
	assert.Equal(t, "Alice. email: alice@example.com", blob)

	_, ok = s.Get(99)
	assert.False(t, ok)

	bm := s.Bitmap()
	assert.True(t, bm.Contains(10))
	assert.True(t, bm.Contains(20))
	assert.EqualValues(t, 2, bm.GetCardinality())
}

func TestMatchIdentity(t *testing.T) {
	s, err := NewStore([]Record{
		{ID: 1, Name: "Li Garcia", Attributes: map[string]string{"email": "li.garcia@example.com"}},
		{ID: 2, Name: "John Doe", Attributes: map[string]string{"employer": "Garcia Logistics"}},
		{ID: 3, Name: "Mary Major"},
	})
	require.NoError(t, err)

	// Case-insensitive, matches name and attribute values.
	m := s.MatchIdentity("li garcia")
	assert.True(t, m.Contains(1))
	assert.False(t, m.Contains(2))

	m = s.MatchIdentity("Garcia")
	assert.EqualValues(t, 2, m.GetCardinality())

	assert.True(t, s.MatchIdentity("Nobody Here").IsEmpty())
	assert.True(t, s.MatchIdentity("").IsEmpty())
	assert.True(t, s.MatchIdentity("   ").IsEmpty())
}
