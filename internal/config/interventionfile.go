package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/kentwait/loimos/internal/intervention"
)

// interventionFile mirrors spec.md §6's intervention-model file: "a list of
// triggers ..., a list of person_attributes and location_attributes ..., a
// list of person_interventions and location_interventions". Attribute-schema
// additions are handled by the scenario loader's own schema files; this file
// only carries triggers and intervention specs.
type interventionFile struct {
	Triggers             []triggerTOML     `toml:"trigger"`
	PersonInterventions  []interventionTOML `toml:"person_intervention"`
	LocationInterventions []interventionTOML `toml:"location_intervention"`
}

type triggerTOML struct {
	// Kind is one of "day", "rate".
	Kind    string  `toml:"kind"`
	OnDay   int     `toml:"trigger_on_day"`
	OffDay  int     `toml:"trigger_off_day"`
	OnRate  float64 `toml:"trigger_on_rate"`
	OffRate float64 `toml:"trigger_off_rate"`
}

type interventionTOML struct {
	// Kind is one of "vaccination", "self_isolation", "school_closure".
	Kind         string  `toml:"kind"`
	TriggerIndex int     `toml:"trigger_index"`
	Compliance   float64 `toml:"compliance"`

	VaccinatedAttr           string  `toml:"vaccinated_attr"`
	SusceptibilityAttr       string  `toml:"susceptibility_attr"`
	VaccinatedSusceptibility float64 `toml:"vaccinated_susceptibility"`
}

// LoadInterventionModel parses path and builds an *intervention.Model.
func LoadInterventionModel(path string) (*intervention.Model, error) {
	var raw interventionFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrapf(err, "config: cannot parse intervention model %s", path)
	}

	triggers := make([]*intervention.Trigger, len(raw.Triggers))
	for i, t := range raw.Triggers {
		trig := &intervention.Trigger{
			OnDay: t.OnDay, OffDay: t.OffDay,
			OnRate: t.OnRate, OffRate: t.OffRate,
		}
		switch t.Kind {
		case "day":
			trig.Kind = intervention.DayTrigger
		case "rate", "":
			trig.Kind = intervention.RateTrigger
		default:
			return nil, errors.Errorf("config: trigger %d has unrecognized kind %q", i, t.Kind)
		}
		triggers[i] = trig
	}

	onPerson, err := buildSpecs(raw.PersonInterventions, len(triggers))
	if err != nil {
		return nil, err
	}
	onLoc, err := buildSpecs(raw.LocationInterventions, len(triggers))
	if err != nil {
		return nil, err
	}

	return intervention.NewModel(triggers, onPerson, onLoc), nil
}

func buildSpecs(raw []interventionTOML, numTriggers int) ([]*intervention.Spec, error) {
	specs := make([]*intervention.Spec, len(raw))
	for i, s := range raw {
		if s.TriggerIndex < 0 || s.TriggerIndex >= numTriggers {
			return nil, errors.Errorf("config: intervention %d references undefined trigger %d", i, s.TriggerIndex)
		}
		spec := &intervention.Spec{
			Index:                    i,
			TriggerIndex:             s.TriggerIndex,
			Compliance:               s.Compliance,
			VaccinatedAttr:           s.VaccinatedAttr,
			SusceptibilityAttr:       s.SusceptibilityAttr,
			VaccinatedSusceptibility: s.VaccinatedSusceptibility,
		}
		switch s.Kind {
		case "vaccination":
			spec.Kind = intervention.Vaccination
		case "self_isolation":
			spec.Kind = intervention.SelfIsolation
		case "school_closure":
			spec.Kind = intervention.SchoolClosure
		default:
			return nil, errors.Errorf("config: intervention %d has unrecognized kind %q", i, s.Kind)
		}
		specs[i] = spec
	}
	return specs, nil
}
