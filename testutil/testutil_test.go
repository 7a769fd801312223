package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}

	a.Reset()
	c := NewRNG(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, c.Intn(1000), a.Intn(1000))
	}

	assert.EqualValues(t, 42, a.Seed())
}

func TestIdentitiesDistinct(t *testing.T) {
	names := Identities(400)
	require.Len(t, names, 400)

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		assert.False(t, seen[n], "duplicate identity %q", n)
		seen[n] = true
	}
}

func TestPeopleDeterministic(t *testing.T) {
	a := People(50)
	b := People(50)
	require.Equal(t, a, b)

	assert.EqualValues(t, 1, a[0].ID)
	assert.EqualValues(t, 50, a[49].ID)
	assert.NotEmpty(t, a[0].Attributes["email"])
	assert.NotEmpty(t, a[0].Attributes["phone"])
	assert.NotEmpty(t, a[0].Attributes["employer"])
}
