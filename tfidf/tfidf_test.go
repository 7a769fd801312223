package tfidf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sisago/record"
)

func testDocs() []Document {
	return []Document{
		{ID: 1, Text: "John Doe. email: john.doe@example.com. phone: 555-0100"},
		{ID: 2, Text: "Li Garcia. email: li.garcia@example.com. employer: Acme Corp"},
		{ID: 3, Text: "Mary Major. email: mary.major@example.com. phone: 555-0199"},
	}
}

func TestQueryNearest(t *testing.T) {
	m := Train(testDocs())

	dist, id, ok := m.Query("What is the email for Li Garcia?")
	require.True(t, ok)
	assert.Equal(t, record.ID(2), id)
	assert.Less(t, dist, float32(0.9), "overlapping terms must reduce the distance")

	_, id, ok = m.Query("phone number of John Doe")
	require.True(t, ok)
	assert.Equal(t, record.ID(1), id)
}

func TestQueryExactBlob(t *testing.T) {
	docs := testDocs()
	m := Train(docs)

	// Querying a member's own blob is the closest possible query.
	dist, id, ok := m.Query(docs[2].Text)
	require.True(t, ok)
	assert.Equal(t, record.ID(3), id)
	assert.InDelta(t, 0.0, dist, 1e-5)
}

func TestQueryDistanceRange(t *testing.T) {
	m := Train(testDocs())

	for _, q := range []string{
		"Li Garcia",
		"completely unrelated query text",
		"",
		"email phone employer",
	} {
		dist, _, ok := m.Query(q)
		require.True(t, ok)
		assert.GreaterOrEqual(t, dist, float32(0), "query %q", q)
		assert.LessOrEqual(t, dist, MaxDistance, "query %q", q)
	}
}

func TestQueryNoVocabularyOverlap(t *testing.T) {
	m := Train(testDocs())

	// Unseen terms contribute zero weight, so the query vector is zero
	// and every member sits at maximal distance.
	dist, _, ok := m.Query("zyzzyva qwertyuiop")
	require.True(t, ok)
	assert.Equal(t, MaxDistance, dist)
}

func TestEmptyModel(t *testing.T) {
	m := Train(nil)

	require.True(t, m.Empty())
	assert.Equal(t, 0, m.Len())

	dist, id, ok := m.Query("anything")
	assert.False(t, ok)
	assert.Equal(t, MaxDistance, dist)
	assert.Equal(t, record.ID(0), id)
}

func TestSingleMemberShard(t *testing.T) {
	m := Train([]Document{{ID: 7, Text: "Ana Silva. email: ana.silva@example.com"}})

	dist, id, ok := m.Query("who is Ana Silva")
	require.True(t, ok)
	assert.Equal(t, record.ID(7), id)
	assert.Less(t, dist, MaxDistance, "smoothed IDF keeps single-member spaces usable")

	// No overlap still returns the sole member, at maximal distance.
	dist, id, ok = m.Query("nothing in common")
	require.True(t, ok)
	assert.Equal(t, record.ID(7), id)
	assert.Equal(t, MaxDistance, dist)
}

func TestRetrainIdempotent(t *testing.T) {
	docs := testDocs()
	queries := []string{
		"email for John Doe",
		"Li Garcia employer",
		"555-0199",
		"no overlap whatsoever xq",
	}

	a := Train(docs)
	b := Train(docs)

	for _, q := range queries {
		da, ia, _ := a.Query(q)
		db, ib, _ := b.Query(q)
		assert.Equal(t, da, db, "distances must be bit-identical for %q", q)
		assert.Equal(t, ia, ib)
	}
}

func TestQueryIsPure(t *testing.T) {
	m := Train(testDocs())

	d1, _, _ := m.Query("Li Garcia email")
	for i := 0; i < 10; i++ {
		d2, _, _ := m.Query("Li Garcia email")
		assert.Equal(t, d1, d2)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"john", "doe", "john", "doe", "example", "com"},
		tokenize("John Doe. john.doe@example.com"))
	assert.Empty(t, tokenize("  ...  "))
	assert.Equal(t, []string{"555", "0100"}, tokenize("555-0100"))
}
