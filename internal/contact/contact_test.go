package contact

import (
	"math/rand"
	"testing"
)

func TestConstantIsApproximatelyHalf(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	hits := 0
	trials := 20000
	for i := 0; i < trials; i++ {
		if (Constant{}).MadeContact(EventSide{}, EventSide{}, 0, rng) {
			hits++
		}
	}
	frac := float64(hits) / float64(trials)
	if frac < 0.47 || frac > 0.53 {
		t.Errorf("Constant contact fraction = %f, want close to 0.5", frac)
	}
}

func TestMinMaxAlphaProbabilityBounds(t *testing.T) {
	mma := MinMaxAlpha{}
	if p := mma.Probability(1); p != 0 {
		t.Errorf("Probability(1) = %f, want 0 (denominator would be non-positive)", p)
	}
	if p := mma.Probability(2); p <= 0 || p > 1 {
		t.Errorf("Probability(2) = %f, want in (0,1]", p)
	}
	// As m grows, the formula should never exceed 1.
	if p := mma.Probability(100000); p > 1 {
		t.Errorf("Probability(100000) = %f, want <= 1", p)
	}
}
