package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if len(cfg.Species) == 0 {
		t.Fatal("expected default species")
	}
	if cfg.Derived.RebuildInterval <= 0 {
		t.Errorf("RebuildInterval = %v, want > 0", cfg.Derived.RebuildInterval)
	}

	total := 0
	for i, sp := range cfg.Species {
		total += sp.Population
		if idx := cfg.Derived.SpeciesIndex[sp.Key]; idx != i {
			t.Errorf("SpeciesIndex[%q] = %d, want %d", sp.Key, idx, i)
		}
	}
	if cfg.Derived.TotalPopulation != total {
		t.Errorf("TotalPopulation = %d, want %d", cfg.Derived.TotalPopulation, total)
	}
}

func TestLoadUserOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	data := `
steering:
  separation_radius: 3.5
species:
  - key: eel
    population: 4
    speed_min: 0.5
    speed_max: 1.5
    shore_bias: {mean: 0.2}
    depth_bias: {mean: 0.0}
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Steering.SeparationRadius != 3.5 {
		t.Errorf("SeparationRadius = %v, want 3.5", cfg.Steering.SeparationRadius)
	}
	// Fields absent from the user file keep their defaults.
	if cfg.Steering.ContainmentGain != 6.0 {
		t.Errorf("ContainmentGain = %v, want default 6.0", cfg.Steering.ContainmentGain)
	}
	if len(cfg.Species) != 1 || cfg.Species[0].Key != "eel" {
		t.Fatalf("species = %+v, want single eel", cfg.Species)
	}
	eel := cfg.Species[0]
	if eel.SizeScale != 1 || eel.SpeedScale != 1 {
		t.Errorf("scales = (%v, %v), want defaults of 1", eel.SizeScale, eel.SpeedScale)
	}
	if eel.Wiggle.Mode != "left_right" || eel.Wiggle.MovingEnd != "tail" {
		t.Errorf("wiggle defaults not applied: %+v", eel.Wiggle)
	}
}

func TestSpeciesValidate(t *testing.T) {
	valid := func() SpeciesConfig {
		return SpeciesConfig{
			Key:        "cod",
			Population: 3,
			SizeScale:  1,
			SpeedScale: 1,
			SpeedMin:   1,
			SpeedMax:   2,
			ShoreBias:  BiasConfig{Mean: 0.5, Sigma: 0.1},
			DepthBias:  BiasConfig{Mean: 0.5},
			Wiggle:     SpeciesWiggleConfig{Mode: "left_right", MovingEnd: "tail"},
			Extents:    [3]float64{1, 0.5, 0.5},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*SpeciesConfig)
		wantErr string
	}{
		{"valid", func(*SpeciesConfig) {}, ""},
		{"speed min above max", func(s *SpeciesConfig) { s.SpeedMin = 3 }, "speed range"},
		{"zero population", func(s *SpeciesConfig) { s.Population = 0 }, "population"},
		{"bias mean out of range", func(s *SpeciesConfig) { s.ShoreBias.Mean = 1.5 }, "shore_bias.mean"},
		{"negative sigma", func(s *SpeciesConfig) { s.DepthBias.Sigma = -0.1 }, "depth_bias.sigma"},
		{"bad wiggle mode", func(s *SpeciesConfig) { s.Wiggle.Mode = "spin" }, "wiggle.mode"},
		{"enabled without period", func(s *SpeciesConfig) { s.Wiggle.Enabled = true }, "period_seconds"},
		{"zero extent", func(s *SpeciesConfig) { s.Extents[1] = 0 }, "extents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := valid()
			tt.mutate(&sp)
			err := sp.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsDuplicateKeys(t *testing.T) {
	cfg := Default()
	cfg.Species = append(cfg.Species, cfg.Species[0])
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("Validate() = %v, want duplicate key error", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Species[0].Population = 999
	clone.Steering.SeekGain = 42

	if cfg.Species[0].Population == 999 {
		t.Error("clone shares species slice with original")
	}
	if cfg.Steering.SeekGain == 42 {
		t.Error("clone shares steering config with original")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if len(loaded.Species) != len(cfg.Species) {
		t.Errorf("species count = %d, want %d", len(loaded.Species), len(cfg.Species))
	}
}
