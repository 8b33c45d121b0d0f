package main

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/telemetry"
)

func TestParamDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}

	params := NewParamVector()
	got := params.ExtractFromConfig(cfg)
	for i, spec := range params.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: expected default %v to match config %v", spec.Name, spec.Default, got[i])
		}
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s: default %v outside [%v, %v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestParamNormalizeRoundTrip(t *testing.T) {
	params := NewParamVector()
	raw := params.DefaultVector()
	back := params.Denormalize(params.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", params.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	params := NewParamVector()

	values := make([]float64, params.Dim())
	for i, spec := range params.Specs {
		values[i] = spec.Max + 1000 // clamped to max
	}
	params.ApplyToConfig(cfg, values)

	got := params.ExtractFromConfig(cfg)
	for i, spec := range params.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s: expected clamped %v, got %v", spec.Name, spec.Max, got[i])
		}
	}
}

func TestApplyToConfigKeepsOrdering(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}
	params := NewParamVector()

	values := params.DefaultVector()
	for i, spec := range params.Specs {
		switch spec.Name {
		case "min_downforce":
			values[i] = 900
		case "max_downforce":
			values[i] = 500
		case "standard_torque":
			values[i] = 800
		case "boost_torque":
			values[i] = 400
		}
	}
	params.ApplyToConfig(cfg, values)

	if cfg.Vehicle.MaxDownforce < cfg.Vehicle.MinDownforce {
		t.Errorf("expected max downforce >= min, got %v < %v", cfg.Vehicle.MaxDownforce, cfg.Vehicle.MinDownforce)
	}
	if cfg.PowerPlant.BoostTorque < cfg.PowerPlant.StandardTorque {
		t.Errorf("expected boost torque >= standard, got %v < %v", cfg.PowerPlant.BoostTorque, cfg.PowerPlant.StandardTorque)
	}
}

func TestScaledScript(t *testing.T) {
	h := config.HeadlessConfig{
		Script: []config.ScriptSegment{{Duration: 1, Steer: 0.5}, {Duration: 1, Steer: -0.8}},
		Loop:   true,
	}
	scaled := scaledScript(h, 1.5)

	if scaled.Script[0].Steer != 0.75 {
		t.Errorf("expected 0.75, got %v", scaled.Script[0].Steer)
	}
	if scaled.Script[1].Steer != -1 {
		t.Errorf("expected clamp to -1, got %v", scaled.Script[1].Steer)
	}
	if h.Script[0].Steer != 0.5 {
		t.Error("expected original script untouched")
	}
	if !scaled.Loop {
		t.Error("expected loop flag kept")
	}
}

func TestComputeQuality(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("expected 0 for no windows, got %v", q)
	}

	clean := []telemetry.WindowStats{
		{SpeedMean: 5},
		{SpeedMean: 20, BoostFrac: 0.3},
		{SpeedMean: 20, BoostFrac: 0.3},
	}
	messy := []telemetry.WindowStats{
		{SpeedMean: 5},
		{SpeedMean: 10, SlipFrac: 0.8, OffTrackFrac: 0.6},
		{SpeedMean: 30, SlipFrac: 0.8, AirborneFrac: 0.5, BoostEmptied: 1},
	}

	qc := computeQuality(clean)
	qm := computeQuality(messy)
	if qc <= qm {
		t.Errorf("expected clean drive to score higher: clean=%.3f messy=%.3f", qc, qm)
	}
	if qc < 0 || qc > 1 {
		t.Errorf("expected quality in [0,1], got %v", qc)
	}
}

func TestOnTrackDistance(t *testing.T) {
	windows := []telemetry.WindowStats{
		{Distance: 100},
		{Distance: 100, OffTrackFrac: 0.25},
	}
	if got := onTrackDistance(windows); math.Abs(got-175) > 1e-9 {
		t.Errorf("expected 175, got %v", got)
	}
	if computeFitness(100, 1) != -120 {
		t.Errorf("expected -120, got %v", computeFitness(100, 1))
	}
}

func TestParseVariants(t *testing.T) {
	got, err := parseVariants("0.8, 1.0,1.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 0.8 || got[2] != 1.2 {
		t.Errorf("expected [0.8 1 1.2], got %v", got)
	}
	if _, err := parseVariants(""); err == nil {
		t.Error("expected error for empty list")
	}
	if _, err := parseVariants("fast"); err == nil {
		t.Error("expected error for non-number")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{90 * time.Second, "1m30s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
		{1499 * time.Millisecond, "0m01s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v): expected %q, got %q", tt.d, tt.want, got)
		}
	}
}

func TestProgressLogHeader(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	params := NewParamVector()
	newProgress(params, nil, 10, w)
	w.Flush()

	header := strings.TrimSpace(buf.String())
	fields := strings.Split(header, ",")
	if len(fields) != 4+params.Dim() {
		t.Fatalf("expected %d columns, got %d", 4+params.Dim(), len(fields))
	}
	if fields[0] != "eval" || fields[4] != params.Specs[0].Name {
		t.Errorf("unexpected header %q", header)
	}
}
