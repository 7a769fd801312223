// Package tfidf implements the per-shard retrieval model: a
// term-frequency/inverse-document-frequency vector space over the
// member records' text blobs, queried with k=1 nearest-neighbor search
// under cosine distance.
//
// Each shard owns exactly one Model. A Model is built from scratch by
// Train and never updated incrementally; retraining a shard replaces
// its Model wholesale. This matches the unlearning guarantee: a rebuilt
// shard carries no trace of removed records.
package tfidf

import (
	"math"
	"strings"
	"unicode"

	"github.com/hupe1980/sisago/distance"
	"github.com/hupe1980/sisago/record"
)

// MaxDistance is the distance reported for queries that cannot match:
// empty shards and queries with no vocabulary overlap. Cosine distance
// over non-negative term weights is clamped to [0, 1], so 1 is maximal.
const MaxDistance float32 = 1.0

// Document pairs a record ID with its canonical text blob.
type Document struct {
	ID   record.ID
	Text string
}

// Model is an immutable TF-IDF vector space over a fixed document set.
//
// The vector space (vocabulary, IDF weights, document vectors) is fully
// determined by the training documents and their order, so retraining
// with the same membership yields bit-identical query distances.
type Model struct {
	vocab   map[string]int // term -> dimension, first-seen order
	idf     []float32
	vectors [][]float32 // L2-normalized document vectors
	ids     []record.ID
}

// Train builds a Model from the given documents. Passing no documents
// yields the terminal empty model, which reports MaxDistance and no
// match for every query.
func Train(docs []Document) *Model {
	m := &Model{
		vocab: make(map[string]int),
		ids:   make([]record.ID, len(docs)),
	}
	if len(docs) == 0 {
		return m
	}

	// Vocabulary in first-seen order keeps dimension assignment
	// deterministic for a fixed document order.
	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		m.ids[i] = doc.ID
		tokens := tokenize(doc.Text)
		tokenized[i] = tokens

		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			if _, ok := m.vocab[tok]; !ok {
				m.vocab[tok] = len(m.vocab)
			}
			if !seen[tok] {
				df[tok]++
				seen[tok] = true
			}
		}
	}

	// Smoothed IDF keeps every vocabulary term at positive weight, so
	// even a single-member shard (df == N for all terms) retains a
	// usable vector space.
	m.idf = make([]float32, len(m.vocab))
	n := float64(len(docs))
	for term, dim := range m.vocab {
		m.idf[dim] = float32(math.Log((1+n)/(1+float64(df[term]))) + 1)
	}

	m.vectors = make([][]float32, len(docs))
	for i, tokens := range tokenized {
		m.vectors[i] = m.embed(tokens)
	}

	return m
}

// Empty reports whether the model was trained on an empty member set.
func (m *Model) Empty() bool {
	return len(m.ids) == 0
}

// Len returns the number of member documents.
func (m *Model) Len() int {
	return len(m.ids)
}

// Query embeds the given free text into the model's vector space and
// returns the cosine distance to the nearest member document and that
// document's record ID.
//
// Terms outside the shard's vocabulary contribute zero weight. If the
// model is empty, Query returns (MaxDistance, 0, false). Query is a
// pure function of the trained state.
func (m *Model) Query(text string) (float32, record.ID, bool) {
	if m.Empty() {
		return MaxDistance, 0, false
	}

	qv := m.embed(tokenize(text))

	best := float32(math.MaxFloat32)
	bestIdx := 0
	for i, dv := range m.vectors {
		// Both vectors are L2-normalized (or all-zero), so cosine
		// distance reduces to 1 - dot.
		d := distance.CosineNormalized(qv, dv)
		if d < best {
			best = d
			bestIdx = i
		}
	}

	return best, m.ids[bestIdx], true
}

// embed computes the L2-normalized TF-IDF vector for the given tokens
// within the model's fixed vocabulary. Unknown terms are dropped. A
// token set with no overlap yields the zero vector, which is at
// MaxDistance from every document.
func (m *Model) embed(tokens []string) []float32 {
	vec := make([]float32, len(m.vocab))
	if len(tokens) == 0 {
		return vec
	}

	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	for term, count := range tf {
		dim, ok := m.vocab[term]
		if !ok {
			continue
		}
		vec[dim] = float32(count) / float32(len(tokens)) * m.idf[dim]
	}

	distance.NormalizeInPlace(vec)
	return vec
}

// tokenize splits text into lowercase alphanumeric words.
func tokenize(text string) []string {
	var words []string
	var word strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}

	return words
}
