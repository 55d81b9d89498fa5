package disease

import (
	"math/rand"
	"testing"
)

func twoStateSIModel(t *testing.T) *Model {
	t.Helper()
	states := []State{
		{ // 0: susceptible
			Label: "S", Susceptibility: 1, Infectivity: 0,
			Kind: ExposureTransition, ExposureNext: 1,
		},
		{ // 1: infectious, terminal for this toy model
			Label: "I", Susceptibility: 0, Infectivity: 1,
			Kind: TerminalTransition,
		},
	}
	m, err := NewModel(1.0, states, []StartingStateBand{{State: 0, AgeLower: 0, AgeUpper: 200}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return m
}

func TestHealthyStateForSingleStartingState(t *testing.T) {
	m := twoStateSIModel(t)
	if got := m.HealthyStateFor(999); got != 0 {
		t.Errorf("HealthyStateFor with a single starting state should ignore age; got %d", got)
	}
}

func TestTransitionFromExposureIsImmediate(t *testing.T) {
	m := twoStateSIModel(t)
	rng := rand.New(rand.NewSource(1))
	next, dur := m.TransitionFrom(0, rng)
	if next != 1 {
		t.Errorf("expected exposure transition to state 1, got %d", next)
	}
	if dur != 0 {
		t.Errorf("expected exposure transition duration 0, got %v", dur)
	}
}

func TestTransitionFromTerminalStaysForever(t *testing.T) {
	m := twoStateSIModel(t)
	rng := rand.New(rand.NewSource(1))
	next, dur := m.TransitionFrom(1, rng)
	if next != 1 || dur != PositiveInfinity {
		t.Errorf("expected terminal state to stay forever, got (%d, %v)", next, dur)
	}
}

func TestTimedTransitionStayWhenDrawExceedsSum(t *testing.T) {
	states := []State{
		{
			Label: "A", Susceptibility: 1, Infectivity: 0,
			Kind: TimedTransition,
			Timed: []StateTransition{
				{Next: 1, Prob: 0.1, Duration: FixedDuration{Seconds: 100}},
			},
		},
		{Label: "B", Kind: TerminalTransition},
	}
	m, err := NewModel(1.0, states, []StartingStateBand{{State: 0, AgeLower: 0, AgeUpper: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// A fixed source whose first Float64() draw is known to be > 0.1 would
	// be ideal; instead we sweep seeds until we observe both branches, which
	// is enough to prove the code path exists without hardcoding the PRNG's
	// internal sequence.
	sawStay, sawMove := false, false
	for seed := int64(0); seed < 200 && !(sawStay && sawMove); seed++ {
		rng := rand.New(rand.NewSource(seed))
		next, dur := m.TransitionFrom(0, rng)
		if next == 0 && dur == PositiveInfinity {
			sawStay = true
		}
		if next == 1 {
			sawMove = true
		}
	}
	if !sawStay {
		t.Errorf("never observed the implicit stay-in-state branch across seeds")
	}
	if !sawMove {
		t.Errorf("never observed the timed-transition branch across seeds")
	}
}

func TestPropensityAndEscapeProbability(t *testing.T) {
	m := twoStateSIModel(t)
	p := m.Propensity(0, 1, 3600, 1.0, 1.0)
	if p != 3600 {
		t.Errorf("Propensity = %f, want 3600", p)
	}
	esc := EscapeProbability(0)
	if esc != 1 {
		t.Errorf("EscapeProbability(0) = %f, want 1", esc)
	}
}

func TestNewModelRejectsBadProbabilitySum(t *testing.T) {
	states := []State{
		{
			Label: "A", Kind: TimedTransition,
			Timed: []StateTransition{
				{Next: 0, Prob: 0.6, Duration: FixedDuration{}},
				{Next: 0, Prob: 0.6, Duration: FixedDuration{}},
			},
		},
	}
	if _, err := NewModel(1.0, states, nil); err == nil {
		t.Errorf("expected error for transition probabilities summing > 1")
	}
}
