package input

import (
	"math"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/vehicle"
)

// ScriptSource replays timed input segments. It drives headless runs and tuning.
type ScriptSource struct {
	segments []config.ScriptSegment
	loop     bool
	total    float64
	elapsed  float64
}

// NewScriptSource creates a script source. Segments with non-positive
// duration are skipped.
func NewScriptSource(cfg config.HeadlessConfig) *ScriptSource {
	s := &ScriptSource{loop: cfg.Loop}
	for _, seg := range cfg.Script {
		if seg.Duration <= 0 {
			continue
		}
		s.segments = append(s.segments, seg)
		s.total += seg.Duration
	}
	return s
}

// Advance moves the script clock forward.
func (s *ScriptSource) Advance(dt float64) {
	if dt > 0 {
		s.elapsed += dt
	}
}

// Done reports whether a non-looping script has run out.
func (s *ScriptSource) Done() bool {
	return !s.loop && s.elapsed >= s.total
}

// Reset rewinds the script.
func (s *ScriptSource) Reset() {
	s.elapsed = 0
}

// Sample implements Source. A finished script yields zero input.
func (s *ScriptSource) Sample() vehicle.ControlInput {
	if s.total == 0 || s.Done() {
		return vehicle.ControlInput{}
	}

	t := s.elapsed
	if s.loop {
		t = math.Mod(t, s.total)
	}
	for _, seg := range s.segments {
		if t < seg.Duration {
			return vehicle.ControlInput{
				Steer:    seg.Steer,
				Throttle: seg.Throttle,
				Brake:    seg.Brake,
				Boost:    seg.Boost,
			}
		}
		t -= seg.Duration
	}
	return vehicle.ControlInput{}
}
