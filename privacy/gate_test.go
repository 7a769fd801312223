package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	g := NewGate(0.45)

	tests := []struct {
		name string
		dist float32
		want Decision
	}{
		{name: "clear match", dist: 0.12, want: ConfidentMatch},
		{name: "just below threshold", dist: 0.4499, want: ConfidentMatch},
		{name: "exactly at threshold", dist: 0.45, want: LowConfidence},
		{name: "above threshold", dist: 0.9, want: LowConfidence},
		{name: "maximal distance", dist: 1.0, want: LowConfidence},
		{name: "zero distance", dist: 0, want: ConfidentMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Classify(tt.dist))
		})
	}
}

func TestNewGateDefault(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewGate(0).Threshold())
	assert.Equal(t, DefaultThreshold, NewGate(-1).Threshold())
	assert.Equal(t, float32(0.3), NewGate(0.3).Threshold())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "CONFIDENT_MATCH", ConfidentMatch.String())
	assert.Equal(t, "LOW_CONFIDENCE", LowConfidence.String())
	assert.Equal(t, "Unknown(7)", Decision(7).String())
}
