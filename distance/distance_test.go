package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	assert.InDelta(t, 32.0, Dot([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-6)
	assert.InDelta(t, 0.0, Dot([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 0.0, Dot(nil, nil), 1e-6)
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-6)
	assert.InDelta(t, 0.0, Norm([]float32{0, 0}), 1e-6)
}

func TestNormalizeInPlace(t *testing.T) {
	v := []float32{3, 4}
	require.True(t, NormalizeInPlace(v))
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
	assert.InDelta(t, 1.0, Norm(v), 1e-6)

	zero := []float32{0, 0}
	require.False(t, NormalizeInPlace(zero))
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 1},
		{name: "scaled", a: []float32{1, 1}, b: []float32{5, 5}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosineNormalized(t *testing.T) {
	a := []float32{3, 4}
	b := []float32{4, 3}
	require.True(t, NormalizeInPlace(a))
	require.True(t, NormalizeInPlace(b))

	assert.InDelta(t, Cosine([]float32{3, 4}, []float32{4, 3}), CosineNormalized(a, b), 1e-6)
	assert.InDelta(t, 0.0, CosineNormalized(a, a), 1e-6)
}

func TestCosineClamped(t *testing.T) {
	// Opposite directions exceed the clamp range for raw cosine distance.
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-6)
}
