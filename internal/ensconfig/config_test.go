package ensconfig

import (
	"os"
	"testing"
)

func TestDefaultConfigThresholds(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.C2.MinimalLidProbability != 0.25 {
		t.Errorf("C2.MinimalLidProbability = %v, want 0.25", cfg.C2.MinimalLidProbability)
	}
	if cfg.C3.MinimalLidProbability != 0.5 {
		t.Errorf("C3.MinimalLidProbability = %v, want 0.5", cfg.C3.MinimalLidProbability)
	}
	if cfg.C2.MinimalTextLength != 200 {
		t.Errorf("C2.MinimalTextLength = %v, want 200", cfg.C2.MinimalTextLength)
	}
	if cfg.C3.MinimalTextLength != 20 {
		t.Errorf("C3.MinimalTextLength = %v, want 20", cfg.C3.MinimalTextLength)
	}
	if cfg.C3.ThresholdConfidenceOrigLg != 0.75 {
		t.Errorf("C3.ThresholdConfidenceOrigLg = %v, want 0.75", cfg.C3.ThresholdConfidenceOrigLg)
	}
	if cfg.C3.WeightLbImpressoFt != 3 {
		t.Errorf("C3.WeightLbImpressoFt = %v, want 3", cfg.C3.WeightLbImpressoFt)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.C3.MinimalVotingScore != DefaultConfig().C3.MinimalVotingScore {
		t.Errorf("Load(\"\") did not return defaults")
	}
}

func TestLoadOverridesPreserveUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/ensemble.yml"
	yamlContent := []byte("c3:\n  minimal_voting_score: 0.8\n")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.C3.MinimalVotingScore != 0.8 {
		t.Errorf("C3.MinimalVotingScore = %v, want 0.8 (override)", cfg.C3.MinimalVotingScore)
	}
	if cfg.C3.ThresholdConfidenceOrigLg != 0.75 {
		t.Errorf("C3.ThresholdConfidenceOrigLg = %v, want 0.75 (untouched default)", cfg.C3.ThresholdConfidenceOrigLg)
	}
}
