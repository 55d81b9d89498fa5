// Package contact implements the pluggable ContactModel contract
// (spec.md §4.3): given two co-present agents at a location, decide
// whether they actually make contact.
package contact

import (
	"math"
	"math/rand"
)

// EventSide is the minimal view of a co-present visitor a ContactModel
// needs: which disease state they were in when the event was dispatched.
type EventSide struct {
	PersonState int
}

// Model is the ContactModel contract. Implementations must be safe to call
// concurrently from multiple LocationPartitions sharing the same replica.
type Model interface {
	// MadeContact decides whether susceptible and infectious, co-present at
	// a location with max-simultaneous-visits maxSimultaneous, actually
	// contact. rng is the location's own per-agent stream.
	MadeContact(susceptible, infectious EventSide, maxSimultaneous int, rng *rand.Rand) bool
}

// Constant is the simplest ContactModel: every co-presence has a flat 50%
// chance of contact (spec.md §4.3).
type Constant struct{}

func (Constant) MadeContact(_, _ EventSide, _ int, rng *rand.Rand) bool {
	return rng.Float64() < 0.5
}

// Min-max-alpha tuning constants (spec.md §4.3).
const (
	minMaxAlphaMin   = 5.0
	minMaxAlphaMax   = 40.0
	minMaxAlphaAlpha = 1000.0
)

// MinMaxAlpha derives a per-location contact probability from the
// location's max_simultaneous_visits attribute:
//
//	p_loc = min(1, (MIN + (MAX-MIN)*(1-exp(-m/alpha))) / (m-1))
//
// and returns U(0,1) < p_loc at contact time (spec.md §4.3). p_loc is
// recomputed on every MadeContact call; it is not precomputed at location
// load time and not stored on the Location.
type MinMaxAlpha struct{}

// Probability computes p_loc for a location whose max_simultaneous_visits
// is m. MadeContact calls it once per contact test.
func (MinMaxAlpha) Probability(m int) float64 {
	if m <= 1 {
		// m-1 in the denominator would be <= 0; a location that never hosts
		// more than one simultaneous visitor cannot produce co-presence
		// contacts, so its precomputed probability is 0.
		return 0
	}
	mf := float64(m)
	numerator := minMaxAlphaMin + (minMaxAlphaMax-minMaxAlphaMin)*(1-math.Exp(-mf/minMaxAlphaAlpha))
	p := numerator / (mf - 1)
	if p > 1 {
		p = 1
	}
	return p
}

func (mma MinMaxAlpha) MadeContact(_, _ EventSide, maxSimultaneous int, rng *rand.Rand) bool {
	return rng.Float64() < mma.Probability(maxSimultaneous)
}
