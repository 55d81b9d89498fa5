package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kentwait/loimos/internal/disease"
)

func writeTOML(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDiseaseModelSIR(t *testing.T) {
	path := writeTOML(t, "disease.toml", `
transmissibility = 0.5

[[state]]
label = "S"
susceptibility = 1.0
infectivity = 0.0
kind = "exposure"
exposure_next = 1

[[state]]
label = "I"
susceptibility = 0.0
infectivity = 1.0
symptomatic = true
kind = "timed"

  [[state.timed_transition]]
  next = 2
  with_prob = 1.0
  distribution = "fixed"
  fixed_seconds = 604800

[[state]]
label = "R"
susceptibility = 0.0
infectivity = 0.0
kind = "terminal"

[[starting_state]]
state = 0
age_lower = 0
age_upper = 200
`)
	model, err := LoadDiseaseModel(path)
	if err != nil {
		t.Fatalf("LoadDiseaseModel: %v", err)
	}
	if model.Transmissibility != 0.5 {
		t.Errorf("Transmissibility = %f, want 0.5", model.Transmissibility)
	}
	if len(model.States) != 3 {
		t.Fatalf("got %d states, want 3", len(model.States))
	}
	if model.States[0].Kind != disease.ExposureTransition || model.States[0].ExposureNext != 1 {
		t.Errorf("state 0 = %+v, want ExposureTransition -> 1", model.States[0])
	}
	if model.States[1].Kind != disease.TimedTransition || len(model.States[1].Timed) != 1 {
		t.Errorf("state 1 = %+v, want 1 timed transition", model.States[1])
	}
	if model.States[2].Kind != disease.TerminalTransition {
		t.Errorf("state 2 kind = %v, want TerminalTransition", model.States[2].Kind)
	}
	if model.HealthyStateFor(30) != 0 {
		t.Errorf("HealthyStateFor(30) = %d, want 0", model.HealthyStateFor(30))
	}
}

func TestLoadDiseaseModelRejectsUnknownKind(t *testing.T) {
	path := writeTOML(t, "disease.toml", `
transmissibility = 1.0

[[state]]
label = "S"
kind = "bogus"
`)
	if _, err := LoadDiseaseModel(path); err == nil {
		t.Errorf("expected error for unrecognized state kind")
	}
}

func TestLoadDiseaseModelRejectsUnknownDistribution(t *testing.T) {
	path := writeTOML(t, "disease.toml", `
transmissibility = 1.0

[[state]]
label = "S"
kind = "timed"

  [[state.timed_transition]]
  next = 0
  with_prob = 1.0
  distribution = "bogus"
`)
	if _, err := LoadDiseaseModel(path); err == nil {
		t.Errorf("expected error for unrecognized duration distribution")
	}
}
