package vehicle

import (
	"math"
	"testing"

	"github.com/fmxar/racer/config"
)

func TestComputeTorqueFallsOffWithSpeed(t *testing.T) {
	p := testPowerPlant()

	tests := []struct {
		speedPercent float64
		want         float64
	}{
		{0, 300},
		{0.5, 200},
		{1, 100},
		{1.5, 100}, // speed fraction is clamped
		{-1, 300},
	}

	for _, tt := range tests {
		got := p.ComputeTorque(false, tt.speedPercent)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ComputeTorque(false, %.2f) = %f, want %f", tt.speedPercent, got, tt.want)
		}
		if p.IsBoosting() {
			t.Errorf("expected not boosting at speed %.2f", tt.speedPercent)
		}
	}
}

func TestComputeTorqueMonotoneAndBounded(t *testing.T) {
	p := testPowerPlant()
	prev := math.Inf(1)
	for i := 0; i <= 100; i++ {
		sp := float64(i) / 100
		got := p.ComputeTorque(false, sp)
		if got > prev {
			t.Errorf("torque increased at speed %.2f: %f > %f", sp, got, prev)
		}
		if got < 100 || got > 300 {
			t.Errorf("torque %f outside [100, 300] at speed %.2f", got, sp)
		}
		prev = got
	}
}

func TestComputeTorqueBoost(t *testing.T) {
	p := testPowerPlant()
	p.SetBoostReserve(5)

	if got := p.ComputeTorque(true, 0.3); got != 500 {
		t.Errorf("expected boost torque 500, got %f", got)
	}
	if !p.IsBoosting() {
		t.Error("expected IsBoosting after boost torque")
	}

	// One tick of full throttle boost.
	p.RemoveBoost(1 * 0.1)
	p.TickBoostEconomy(true, 0.3, 0.1)
	if math.Abs(p.BoostReserve()-4) > 1e-9 {
		t.Errorf("expected reserve 4, got %f", p.BoostReserve())
	}
}

func TestComputeTorqueBoostEmptyReserve(t *testing.T) {
	p := testPowerPlant()
	p.SetBoostReserve(0)

	if got := p.ComputeTorque(true, 0); got != 300 {
		t.Errorf("expected standard torque with empty reserve, got %f", got)
	}
	if p.IsBoosting() {
		t.Error("expected not boosting with empty reserve")
	}
}

func TestBoostAcquisition(t *testing.T) {
	tests := []struct {
		name     string
		boosting bool
		speed    float64
		want     float64
	}{
		{"slow and not boosting gains", false, 0.5, 50.5},
		{"boosting gains nothing", true, 0.5, 50},
		{"at threshold gains nothing", false, 0.9, 50},
		{"above threshold gains nothing", false, 0.95, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPowerPlant()
			p.TickBoostEconomy(tt.boosting, tt.speed, 0.1)
			if math.Abs(p.BoostReserve()-tt.want) > 1e-9 {
				t.Errorf("expected reserve %f, got %f", tt.want, p.BoostReserve())
			}
		})
	}
}

func TestBoostReserveStaysBounded(t *testing.T) {
	p := testPowerPlant()

	for i := 0; i < 1000; i++ {
		p.TickBoostEconomy(false, 0, 1)
		if r := p.BoostReserve(); r < 0 || r > MaxBoost {
			t.Fatalf("reserve %f out of bounds while charging", r)
		}
	}
	if p.BoostReserve() != MaxBoost {
		t.Errorf("expected full reserve, got %f", p.BoostReserve())
	}

	for i := 0; i < 1000; i++ {
		p.RemoveBoost(1)
		p.TickBoostEconomy(true, 0, 1)
		if r := p.BoostReserve(); r < 0 || r > MaxBoost {
			t.Fatalf("reserve %f out of bounds while draining", r)
		}
	}
	if p.BoostReserve() != 0 {
		t.Errorf("expected empty reserve, got %f", p.BoostReserve())
	}

	p.SetBoostReserve(math.NaN())
	if p.BoostReserve() != 0 {
		t.Errorf("expected NaN reserve to read 0, got %f", p.BoostReserve())
	}
	p.SetBoostReserve(250)
	if p.BoostReserve() != MaxBoost {
		t.Errorf("expected reserve clamped to %f, got %f", MaxBoost, p.BoostReserve())
	}
}

func TestNewPowerPlantFromConfig(t *testing.T) {
	p := NewPowerPlant(config.PowerPlantConfig{
		StandardTorque: 420,
		MinTorque:      140,
		BoostTorque:    720,
		InitialBoost:   130,
	})
	if p.BoostReserve() != MaxBoost {
		t.Errorf("expected initial reserve clamped to %f, got %f", MaxBoost, p.BoostReserve())
	}
	if got := p.ComputeTorque(false, 0); got != 420 {
		t.Errorf("expected standard torque 420, got %f", got)
	}
}
