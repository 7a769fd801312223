// Package distance provides vector distance calculations for the
// per-shard retrieval models.
//
// All functions operate on float32 slices and assume (but do not check)
// that both arguments have the same length; that is the caller's
// responsibility.
package distance

import "math"

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm calculates the L2 norm (magnitude) of a vector.
func Norm(v []float32) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// NormalizeInPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm (v is left unchanged).
func NormalizeInPlace(v []float32) bool {
	norm := Norm(v)
	if norm == 0 {
		return false
	}
	inv := 1 / norm
	for i := range v {
		v[i] *= inv
	}
	return true
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns 0 if either vector has zero norm.
func CosineSimilarity(a, b []float32) float32 {
	na := Norm(a)
	nb := Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Cosine calculates the cosine distance (1 - cosine similarity) between
// two vectors, clamped to [0, 1]. For non-negative term-weight vectors
// the similarity is never negative, so the clamp only absorbs float
// rounding around 0 and 1.
func Cosine(a, b []float32) float32 {
	d := 1 - CosineSimilarity(a, b)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// CosineNormalized calculates the cosine distance between two vectors
// that are already L2-normalized, clamped to [0, 1].
func CosineNormalized(a, b []float32) float32 {
	d := 1 - Dot(a, b)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}
