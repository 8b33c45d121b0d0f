package vehicle

import "github.com/fmxar/racer/config"

// MaxBoost is the upper bound of the boost reserve.
const MaxBoost = 100.0

// PowerPlant models the engine's torque curve and the boost reserve.
type PowerPlant struct {
	standardTorque float64
	minTorque      float64
	boostTorque    float64

	acqRate           float64
	acqSpeedThreshold float64
	depletionRate     float64

	reserve  float64
	boosting bool
}

// NewPowerPlant creates a power plant with the configured initial reserve.
func NewPowerPlant(cfg config.PowerPlantConfig) *PowerPlant {
	p := &PowerPlant{
		standardTorque:    cfg.StandardTorque,
		minTorque:         cfg.MinTorque,
		boostTorque:       cfg.BoostTorque,
		acqRate:           cfg.BoostAcqRate,
		acqSpeedThreshold: cfg.BoostAcqSpeedThreshold,
		depletionRate:     cfg.BoostDepletionRate,
	}
	p.SetBoostReserve(cfg.InitialBoost)
	return p
}

// ComputeTorque returns the engine torque for this tick. Boost torque is used
// while boost is requested and any reserve remains; otherwise torque falls off
// linearly from standard at rest to minimum at top speed.
func (p *PowerPlant) ComputeTorque(boosting bool, speedPercent float64) float64 {
	if boosting && p.reserve > 0 {
		p.boosting = true
		return p.boostTorque
	}
	p.boosting = false
	return lerp(p.standardTorque, p.minTorque, finite(speedPercent))
}

// TickBoostEconomy regains boost while not boosting below the acquisition speed.
func (p *PowerPlant) TickBoostEconomy(boosting bool, speedPercent, dt float64) {
	if !boosting && speedPercent < p.acqSpeedThreshold {
		p.reserve += p.acqRate * finite(dt)
	}
	p.clampReserve()
}

// RemoveBoost spends depletionRate * amount from the reserve.
func (p *PowerPlant) RemoveBoost(amount float64) {
	p.reserve -= p.depletionRate * finite(amount)
	p.clampReserve()
}

// SetBoostReserve sets the reserve, clamped to [0, MaxBoost].
func (p *PowerPlant) SetBoostReserve(v float64) {
	p.reserve = finite(v)
	p.clampReserve()
}

// BoostReserve returns the current reserve in [0, MaxBoost].
func (p *PowerPlant) BoostReserve() float64 { return p.reserve }

// IsBoosting reports whether the last ComputeTorque used boost torque.
func (p *PowerPlant) IsBoosting() bool { return p.boosting }

func (p *PowerPlant) clampReserve() {
	p.reserve = clamp(p.reserve, 0, MaxBoost)
}
