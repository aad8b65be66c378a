package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}

	for _, spec := range pv.Specs {
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s default %v outside [%v, %v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestApplyToConfigClampsAndExtracts(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := make([]float64, pv.Dim())
	for i, spec := range pv.Specs {
		values[i] = spec.Max * 10
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s = %v, want clamped to %v", spec.Name, got[i], spec.Max)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config invalid after apply: %v", err)
	}
}

func TestExtractMatchesDefaults(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config default %v, spec default %v", spec.Name, got[i], spec.Default)
		}
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    Summary
	}{
		{"empty", nil, Summary{}},
		{
			"warmup only",
			[]telemetry.WindowStats{{ClampRate: 1, CrowdedFrac: 1}},
			Summary{ClampRate: 1, CrowdedFrac: 1},
		},
		{
			"skips warmup",
			[]telemetry.WindowStats{
				{ClampRate: 1, CrowdedFrac: 1, RetargetsTimeout: 10},
				{ClampRate: 0.1, CrowdedFrac: 0.2, RetargetsReached: 3, RetargetsTimeout: 1},
				{ClampRate: 0.3, CrowdedFrac: 0.4},
			},
			Summary{ClampRate: 0.2, CrowdedFrac: 0.3, TimeoutShare: 0.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.windows)
			if math.Abs(got.ClampRate-tt.want.ClampRate) > 1e-12 ||
				math.Abs(got.CrowdedFrac-tt.want.CrowdedFrac) > 1e-12 ||
				math.Abs(got.TimeoutShare-tt.want.TimeoutShare) > 1e-12 {
				t.Errorf("Summarize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluateShortRun(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 120, []int64{1, 2}, config.Default(), 0.5)

	f := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		t.Fatalf("fitness = %v", f)
	}
	if s := fe.LastSummary(); math.Abs(s.Fitness()-f) > 1e-12 {
		t.Errorf("summary fitness %v != %v", s.Fitness(), f)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(65 * time.Second); got != "1m05s" {
		t.Errorf("formatDuration(65s) = %q", got)
	}
	if got := formatDuration(3725 * time.Second); got != "1h02m05s" {
		t.Errorf("formatDuration(3725s) = %q", got)
	}
}
