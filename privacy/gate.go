// Package privacy converts raw nearest-neighbor distances into binary
// leakage decisions.
package privacy

import "fmt"

// DefaultThreshold is the reference confidence threshold: cosine
// distances below it are treated as confident identity matches.
const DefaultThreshold float32 = 0.45

// Decision is the outcome of classifying a distance.
type Decision int

const (
	// LowConfidence means the distance is at or above the threshold;
	// releasing the result is acceptable.
	LowConfidence Decision = iota
	// ConfidentMatch means the distance is below the threshold and the
	// result discloses identity information.
	ConfidentMatch
)

func (d Decision) String() string {
	switch d {
	case LowConfidence:
		return "LOW_CONFIDENCE"
	case ConfidentMatch:
		return "CONFIDENT_MATCH"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// Gate classifies distances against a fixed threshold. The zero value
// is not useful; construct with NewGate.
type Gate struct {
	threshold float32
}

// NewGate creates a Gate with the given threshold. A non-positive
// threshold selects DefaultThreshold.
func NewGate(threshold float32) Gate {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Gate{threshold: threshold}
}

// Threshold returns the configured threshold.
func (g Gate) Threshold() float32 {
	return g.threshold
}

// Classify maps a distance to a Decision. Pure and stateless:
// distance < threshold is a ConfidentMatch, everything else is
// LowConfidence.
func (g Gate) Classify(dist float32) Decision {
	if dist < g.threshold {
		return ConfidentMatch
	}
	return LowConfidence
}
