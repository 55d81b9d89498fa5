// Package disease implements the timed probabilistic finite automaton
// disease-state contract (spec.md §4.2): next-state sampling, per-state
// susceptibility/infectivity weights, and the propensity calculation that
// drives the Poisson infection process at locations and in end-of-day
// exposure rolls.
package disease

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// StateID indexes into a Model's States slice.
type StateID int

// TransitionKind is the closed sum type of how a DiseaseState decides its
// next state: on a timer, on an externally-driven exposure, or never
// (terminal).
type TransitionKind int

const (
	// TimedTransition draws a next state and duration from a
	// TimedTransitionSet at state-entry time.
	TimedTransition TransitionKind = iota
	// ExposureTransition moves to a single externally-triggered next state
	// with duration 0 (caller treats 0 as "transition immediately at
	// end of day", spec.md §4.2).
	ExposureTransition
	// TerminalTransition never leaves its state.
	TerminalTransition
)

// StateTransition is one weighted edge of a TimedTransitionSet: with
// probability Prob, move to Next after a duration drawn from Duration.
type StateTransition struct {
	Next     StateID
	Prob     float64
	Duration DurationDistribution
}

// StartingStateBand binds a starting state to an inclusive age band, used
// by Model.HealthyStateFor when more than one starting state is declared
// (spec.md §4.2).
type StartingStateBand struct {
	State    StateID
	AgeLower int
	AgeUpper int
}

// State is one node of the disease automaton (spec.md §3 DiseaseState).
type State struct {
	Label         string
	Susceptibility float64 // in [0,1]
	Infectivity    float64 // >= 0
	Symptomatic    bool

	Kind TransitionKind

	// Timed holds the weighted transition set when Kind == TimedTransition.
	// Probabilities must sum to <= 1+epsilon; the remainder is an implicit
	// "stay in this state" outcome.
	Timed []StateTransition

	// ExposureNext holds the single next state when Kind == ExposureTransition.
	ExposureNext StateID
}

const probEpsilon = 1e-6

// Model is the per-node-replica disease model contract (spec.md §4.2).
type Model struct {
	Transmissibility float64
	States           []State
	StartingStates   []StartingStateBand
}

// NewModel validates states and starting-state bands before returning a
// usable Model; invalid disease-model files are a fatal configuration
// error (spec.md §7.1).
func NewModel(transmissibility float64, states []State, starting []StartingStateBand) (*Model, error) {
	if len(states) == 0 {
		return nil, errors.New("disease model: no states defined")
	}
	for i, s := range states {
		if s.Susceptibility < 0 || s.Susceptibility > 1 {
			return nil, errors.Errorf("disease model: state %q susceptibility %f out of [0,1]", s.Label, s.Susceptibility)
		}
		if s.Infectivity < 0 {
			return nil, errors.Errorf("disease model: state %q infectivity %f < 0", s.Label, s.Infectivity)
		}
		if s.Kind == TimedTransition {
			var sum float64
			for _, tr := range s.Timed {
				if int(tr.Next) < 0 || int(tr.Next) >= len(states) {
					return nil, errors.Errorf("disease model: state %q transitions to undefined state %d", s.Label, tr.Next)
				}
				sum += tr.Prob
			}
			if sum > 1+probEpsilon {
				return nil, errors.Errorf("disease model: state %q transition probabilities sum to %f > 1", s.Label, sum)
			}
		}
		if s.Kind == ExposureTransition {
			if int(s.ExposureNext) < 0 || int(s.ExposureNext) >= len(states) {
				return nil, errors.Errorf("disease model: state %q exposure-transitions to undefined state %d", s.Label, s.ExposureNext)
			}
		}
		_ = i
	}
	for _, b := range starting {
		if int(b.State) < 0 || int(b.State) >= len(states) {
			return nil, errors.Errorf("disease model: starting state band references undefined state %d", b.State)
		}
	}
	return &Model{Transmissibility: transmissibility, States: states, StartingStates: starting}, nil
}

// HealthyStateFor picks the starting state whose age band contains age. If
// only one starting state is declared, it is returned unconditionally
// without consulting age (spec.md §4.2 and the Open Questions resolution in
// §9 mandating this path run for every person at init).
func (m *Model) HealthyStateFor(age int) StateID {
	if len(m.StartingStates) == 1 {
		return m.StartingStates[0].State
	}
	for _, b := range m.StartingStates {
		if age >= b.AgeLower && age <= b.AgeUpper {
			return b.State
		}
	}
	// No band matched: fall back to the first declared starting state
	// rather than panicking mid-simulation; a scenario with gaps in its
	// age bands is a configuration smell, not a per-person fatal error.
	if len(m.StartingStates) > 0 {
		return m.StartingStates[0].State
	}
	return 0
}

// TransitionFrom samples the next state and sojourn duration for a person
// currently in state (spec.md §4.2).
func (m *Model) TransitionFrom(state StateID, rng *rand.Rand) (StateID, Duration) {
	s := m.States[state]
	switch s.Kind {
	case TimedTransition:
		if len(s.Timed) == 0 {
			return state, PositiveInfinity
		}
		draw := rng.Float64()
		var cdf float64
		for _, tr := range s.Timed {
			cdf += tr.Prob
			if draw < cdf {
				return tr.Next, tr.Duration.Sample(rng)
			}
		}
		// Draw exceeded the sum of probabilities: implicit "stay".
		return state, PositiveInfinity
	case ExposureTransition:
		return s.ExposureNext, Duration(0)
	default: // TerminalTransition
		return state, PositiveInfinity
	}
}

// IsSusceptible reports whether state can be infected (susceptibility > 0).
func (m *Model) IsSusceptible(state StateID) bool {
	return m.States[state].Susceptibility > 0
}

// IsInfectious reports whether state can transmit (infectivity > 0).
func (m *Model) IsInfectious(state StateID) bool {
	return m.States[state].Infectivity > 0
}

// Propensity computes the Poisson-process rate parameter for one
// susceptible/infectious overlap (spec.md §4.2):
//
//	transmissibility * dt * susceptibility(sState) * sModifier *
//	  infectivity(iState) * iModifier
//
// P(no infection during this overlap) = exp(-Propensity(...)).
func (m *Model) Propensity(sState, iState StateID, dtSec float64, sModifier, iModifier float64) float64 {
	return m.Transmissibility * dtSec *
		m.States[sState].Susceptibility * sModifier *
		m.States[iState].Infectivity * iModifier
}

// EscapeProbability returns exp(-propensity), the probability that no
// infection occurs given the accumulated propensity of one or more
// overlaps (spec.md §8 "Propensity additivity law").
func EscapeProbability(propensity float64) float64 {
	return math.Exp(-propensity)
}
