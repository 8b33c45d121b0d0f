package telemetry

import "github.com/fmxar/racer/vehicle"

// Collector accumulates samples within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	speedSamples []float64
	boostSamples []float64
	ticks        int
	boostTicks   int
	wheelTicks   int
	slipTicks    int
	offTrack     int
	airborne     int
	distance     float64

	// Event counters for current window
	boostActivations int
	boostEmptied     int
	trackExits       int
	landings         int

	detector EventDetector
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(windowDurationSec / dt)
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTick samples the published vehicle state for one tick. travelled is
// the chassis displacement over the tick. Transition events detected at this
// tick are returned so callers can log them.
func (c *Collector) RecordTick(tick int32, s vehicle.State, travelled float64) []Event {
	c.ticks++
	c.speedSamples = append(c.speedSamples, s.SpeedPercent)
	c.boostSamples = append(c.boostSamples, s.BoostReserve)
	if s.IsBoosting {
		c.boostTicks++
	}
	if !s.AllWheelsGrounded {
		c.airborne++
	}
	for _, w := range s.Wheels {
		c.wheelTicks++
		if w.IsSlipping {
			c.slipTicks++
		}
		if w.IsGrounded && !w.GoodTerrain {
			c.offTrack++
		}
	}
	c.distance += travelled

	events := c.detector.Observe(tick, s)
	for _, e := range events {
		switch e.Type {
		case EventBoostStart:
			c.boostActivations++
		case EventBoostEmpty:
			c.boostEmptied++
		case EventLeftTrack:
			c.trackExits++
		case EventLanded:
			c.landings++
		}
	}
	return events
}

// ShouldFlush returns true if the current window is complete.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces WindowStats for the current window and resets counters.
func (c *Collector) Flush(currentTick int32) WindowStats {
	speed := Describe(c.speedSamples)
	boost := Describe(c.boostSamples)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Ticks:           c.ticks,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
		SpeedMax:  speed.Max,

		BoostMean: boost.Mean,
		BoostMin:  boost.Min,
		BoostMax:  boost.Max,
		BoostFrac: fraction(c.boostTicks, c.ticks),

		SlipFrac:     fraction(c.slipTicks, c.wheelTicks),
		OffTrackFrac: fraction(c.offTrack, c.wheelTicks),
		AirborneFrac: fraction(c.airborne, c.ticks),

		BoostActivations: c.boostActivations,
		BoostEmptied:     c.boostEmptied,
		TrackExits:       c.trackExits,
		Landings:         c.landings,

		Distance: c.distance,
	}

	c.windowStartTick = currentTick
	c.speedSamples = c.speedSamples[:0]
	c.boostSamples = c.boostSamples[:0]
	c.ticks = 0
	c.boostTicks = 0
	c.wheelTicks = 0
	c.slipTicks = 0
	c.offTrack = 0
	c.airborne = 0
	c.distance = 0
	c.boostActivations = 0
	c.boostEmptied = 0
	c.trackExits = 0
	c.landings = 0

	return stats
}

// Reset drops the current window and starts a new one at tick.
func (c *Collector) Reset(tick int32) {
	c.Flush(tick)
	c.detector.Reset()
}

// WindowDurationTicks returns the window duration in ticks.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

func fraction(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
