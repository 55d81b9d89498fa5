package config

import (
	"os"
	"testing"
)

func TestParseArgsRealDataMode(t *testing.T) {
	argv := []string{"0", "4", "8", "30", "7", "/tmp/out", "disease.toml", "/tmp/scenario", "-m", "-i", "intervention.toml"}
	cfg, err := ParseArgs(argv)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.Mode != RealDataMode {
		t.Errorf("Mode = %v, want RealDataMode", cfg.Mode)
	}
	if cfg.NumPeoplePartitions != 4 || cfg.NumLocationPartitions != 8 || cfg.NumDays != 30 || cfg.NumDistinctVisitDays != 7 {
		t.Errorf("cfg = %+v, partition/day fields mismatch", cfg)
	}
	if cfg.OutputDir != "/tmp/out" || cfg.DiseaseModelPath != "disease.toml" || cfg.ScenarioDir != "/tmp/scenario" {
		t.Errorf("cfg = %+v, path fields mismatch", cfg)
	}
	if !cfg.MinMaxAlpha || cfg.InterventionPath != "intervention.toml" {
		t.Errorf("cfg = %+v, flag fields mismatch", cfg)
	}
}

func TestParseArgsOnTheFlyMode(t *testing.T) {
	argv := []string{"1", "10", "10", "20", "20", "3", "2", "2", "4", "14", "/tmp/out", "disease.toml"}
	cfg, err := ParseArgs(argv)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.Mode != OnTheFlyMode {
		t.Errorf("Mode = %v, want OnTheFlyMode", cfg.Mode)
	}
	if cfg.PeopleWidth != 10 || cfg.PeopleHeight != 10 || cfg.LocationWidth != 20 || cfg.LocationHeight != 20 {
		t.Errorf("cfg = %+v, grid fields mismatch", cfg)
	}
	if cfg.LocPartitionWidth != 2 || cfg.LocPartitionHeight != 2 {
		t.Errorf("cfg = %+v, partition block fields mismatch", cfg)
	}
	if cfg.NumPeoplePartitions != 4 || cfg.NumDays != 14 {
		t.Errorf("cfg = %+v, count fields mismatch", cfg)
	}
	if cfg.MinMaxAlpha || cfg.InterventionPath != "" {
		t.Errorf("cfg = %+v, expected no flags set", cfg)
	}
}

func TestParseArgsSeedFlags(t *testing.T) {
	argv := []string{"0", "4", "8", "30", "7", "/tmp/out", "disease.toml", "/tmp/scenario", "-seed", "42", "-seed-days", "3", "-seed-count", "10"}
	cfg, err := ParseArgs(argv)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.Seed != 42 || cfg.SeedDays != 3 || cfg.SeedCount != 10 {
		t.Errorf("cfg = %+v, want Seed=42 SeedDays=3 SeedCount=10", cfg)
	}
}

func TestParseArgsRejectsBadMode(t *testing.T) {
	if _, err := ParseArgs([]string{"2", "1", "1", "1", "1", "x", "y", "z"}); err == nil {
		t.Errorf("expected error for mode 2")
	}
}

func TestParseArgsRejectsWrongArgCount(t *testing.T) {
	if _, err := ParseArgs([]string{"0", "1", "2"}); err == nil {
		t.Errorf("expected error for too few real-data positional args")
	}
}

func TestParseArgsRejectsUnevenLocationGrid(t *testing.T) {
	argv := []string{"1", "10", "10", "21", "20", "3", "2", "2", "4", "14", "/tmp/out", "disease.toml"}
	if _, err := ParseArgs(argv); err == nil {
		t.Errorf("expected error when location grid does not divide evenly into partition blocks")
	}
}

func TestParseAggregatorEnvUnset(t *testing.T) {
	os.Unsetenv("LOIMOS_TEST_PARAMS")
	cfg, err := ParseAggregatorEnv("LOIMOS_TEST_PARAMS")
	if err != nil {
		t.Fatalf("ParseAggregatorEnv: %v", err)
	}
	if cfg.Use {
		t.Errorf("unset env should produce Use=false")
	}
}

func TestParseAggregatorEnvParsesAllFields(t *testing.T) {
	os.Setenv("LOIMOS_TEST_PARAMS", "use:1,4096,0.8,2.5,node_level:0")
	defer os.Unsetenv("LOIMOS_TEST_PARAMS")

	cfg, err := ParseAggregatorEnv("LOIMOS_TEST_PARAMS")
	if err != nil {
		t.Fatalf("ParseAggregatorEnv: %v", err)
	}
	if !cfg.Use || cfg.BufferSize != 4096 || cfg.Threshold != 0.8 || cfg.NodeLevel {
		t.Errorf("cfg = %+v, want use=true buffer=4096 threshold=0.8 node_level=false", cfg)
	}
	if cfg.FlushPeriod.Seconds() != 2.5 {
		t.Errorf("FlushPeriod = %v, want 2.5s", cfg.FlushPeriod)
	}
}

func TestParseAggregatorEnvRejectsWrongFieldCount(t *testing.T) {
	os.Setenv("LOIMOS_TEST_PARAMS", "use:1,4096")
	defer os.Unsetenv("LOIMOS_TEST_PARAMS")
	if _, err := ParseAggregatorEnv("LOIMOS_TEST_PARAMS"); err == nil {
		t.Errorf("expected error for wrong field count")
	}
}
