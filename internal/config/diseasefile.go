package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/disease"
)

// diseaseFile mirrors the disease-model file's fields one-to-one (spec.md
// §6: "a list of states, each with a label, a susceptibility and
// infectivity weight ... a top-level transmissibility scalar and a list of
// starting_states"). The file is text-format protobuf in spec.md; the pack
// carries no generated Go bindings for a custom schema, so it is decoded as
// TOML instead with github.com/BurntSushi/toml — see DESIGN.md.
type diseaseFile struct {
	Transmissibility float64              `toml:"transmissibility"`
	States           []diseaseStateTOML   `toml:"state"`
	StartingStates   []startingStateTOML  `toml:"starting_state"`
}

type diseaseStateTOML struct {
	Label          string  `toml:"label"`
	Susceptibility float64 `toml:"susceptibility"`
	Infectivity    float64 `toml:"infectivity"`
	Symptomatic    bool    `toml:"symptomatic"`

	// Kind is one of "timed", "exposure", "terminal".
	Kind string `toml:"kind"`

	Timed        []timedTransitionTOML `toml:"timed_transition"`
	ExposureNext int                   `toml:"exposure_next"`
}

type timedTransitionTOML struct {
	Next int     `toml:"next"`
	Prob float64 `toml:"with_prob"`

	// Distribution is one of "fixed", "uniform", "normal", "discrete",
	// "forever".
	Distribution string    `toml:"distribution"`
	Fixed        float64   `toml:"fixed_seconds"`
	Lower        float64   `toml:"lower"`
	Upper        float64   `toml:"upper"`
	Mean         float64   `toml:"mean"`
	Variance     float64   `toml:"variance"`
	Values       []float64 `toml:"values"`
	Weights      []float64 `toml:"weights"`
}

type startingStateTOML struct {
	State    int `toml:"state"`
	AgeLower int `toml:"age_lower"`
	AgeUpper int `toml:"age_upper"`
}

// LoadDiseaseModel parses path and builds a validated disease.Model
// (spec.md §6 "Disease model file").
func LoadDiseaseModel(path string) (*disease.Model, error) {
	var raw diseaseFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrapf(err, "config: cannot parse disease model %s", path)
	}

	states := make([]disease.State, len(raw.States))
	for i, s := range raw.States {
		state := disease.State{
			Label:          s.Label,
			Susceptibility: s.Susceptibility,
			Infectivity:    s.Infectivity,
			Symptomatic:    s.Symptomatic,
		}
		switch s.Kind {
		case "timed", "":
			state.Kind = disease.TimedTransition
			state.Timed = make([]disease.StateTransition, len(s.Timed))
			for j, tr := range s.Timed {
				dist, err := buildDistribution(tr)
				if err != nil {
					return nil, errors.Wrapf(err, "config: state %q transition %d", s.Label, j)
				}
				state.Timed[j] = disease.StateTransition{
					Next:     disease.StateID(tr.Next),
					Prob:     tr.Prob,
					Duration: dist,
				}
			}
		case "exposure":
			state.Kind = disease.ExposureTransition
			state.ExposureNext = disease.StateID(s.ExposureNext)
		case "terminal":
			state.Kind = disease.TerminalTransition
		default:
			return nil, errors.Errorf("config: state %q has unrecognized kind %q", s.Label, s.Kind)
		}
		states[i] = state
	}

	starting := make([]disease.StartingStateBand, len(raw.StartingStates))
	for i, b := range raw.StartingStates {
		starting[i] = disease.StartingStateBand{
			State:    disease.StateID(b.State),
			AgeLower: b.AgeLower,
			AgeUpper: b.AgeUpper,
		}
	}

	return disease.NewModel(raw.Transmissibility, states, starting)
}

func buildDistribution(tr timedTransitionTOML) (disease.DurationDistribution, error) {
	switch tr.Distribution {
	case "fixed", "":
		return disease.FixedDuration{Seconds: tr.Fixed}, nil
	case "uniform":
		return disease.UniformDuration{Lower: tr.Lower, Upper: tr.Upper}, nil
	case "normal":
		return disease.NormalDuration{Mean: tr.Mean, Variance: tr.Variance}, nil
	case "discrete":
		return disease.DiscreteDuration{Values: tr.Values, Weights: tr.Weights}, nil
	case "forever":
		return disease.ForeverDuration{}, nil
	default:
		return nil, errors.Errorf("config: unrecognized duration distribution %q", tr.Distribution)
	}
}
