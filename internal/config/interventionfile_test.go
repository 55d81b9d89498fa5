package config

import (
	"testing"

	"github.com/kentwait/loimos/internal/intervention"
)

func TestLoadInterventionModel(t *testing.T) {
	path := writeTOML(t, "intervention.toml", `
[[trigger]]
kind = "rate"
trigger_on_rate = 0.05
trigger_off_rate = 0.01

[[person_intervention]]
kind = "vaccination"
trigger_index = 0
compliance = 0.8
vaccinated_attr = "vaccinated"
susceptibility_attr = "susceptibility"
vaccinated_susceptibility = 0.1

[[person_intervention]]
kind = "self_isolation"
trigger_index = 0
compliance = 0.6

[[location_intervention]]
kind = "school_closure"
trigger_index = 0
compliance = 1.0
`)
	model, err := LoadInterventionModel(path)
	if err != nil {
		t.Fatalf("LoadInterventionModel: %v", err)
	}
	if len(model.Triggers) != 1 {
		t.Fatalf("got %d triggers, want 1", len(model.Triggers))
	}
	if model.Triggers[0].Kind != intervention.RateTrigger {
		t.Errorf("trigger kind = %v, want RateTrigger", model.Triggers[0].Kind)
	}
	if len(model.OnPerson) != 2 || len(model.OnLoc) != 1 {
		t.Fatalf("got %d person and %d location interventions, want 2 and 1", len(model.OnPerson), len(model.OnLoc))
	}
	if model.OnPerson[0].Kind != intervention.Vaccination || model.OnPerson[0].VaccinatedSusceptibility != 0.1 {
		t.Errorf("person intervention 0 = %+v, want Vaccination with susceptibility 0.1", model.OnPerson[0])
	}
	if model.OnPerson[1].Kind != intervention.SelfIsolation {
		t.Errorf("person intervention 1 kind = %v, want SelfIsolation", model.OnPerson[1].Kind)
	}
	if model.OnLoc[0].Kind != intervention.SchoolClosure {
		t.Errorf("location intervention 0 kind = %v, want SchoolClosure", model.OnLoc[0].Kind)
	}
}

func TestLoadInterventionModelRejectsBadTriggerIndex(t *testing.T) {
	path := writeTOML(t, "intervention.toml", `
[[person_intervention]]
kind = "vaccination"
trigger_index = 0
compliance = 1.0
`)
	if _, err := LoadInterventionModel(path); err == nil {
		t.Errorf("expected error when no triggers are declared but one is referenced")
	}
}
