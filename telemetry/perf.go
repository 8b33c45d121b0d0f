package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase names for a session tick. They match the stage IDs in systems.StageRegistry.
const (
	PhaseInput      = "input"
	PhaseController = "controller"
	PhaseSolver     = "solver"
	PhaseTelemetry  = "telemetry"
)

// Phases lists the tick phases in execution order.
var Phases = []string{PhaseInput, PhaseController, PhaseSolver, PhaseTelemetry}

const numPhases = 4

// phaseIndex returns the slot for a phase name, or -1 for names outside Phases.
func phaseIndex(name string) int {
	for i, p := range Phases {
		if p == name {
			return i
		}
	}
	return -1
}

// tickSample is the timing of one session tick.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps a ring of recent tick timings broken down by phase,
// plus the latest frame interval in graphics mode.
type PerfCollector struct {
	ring        []tickSample
	next        int
	sampleCount int

	current    tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:  make([]tickSample, windowSize),
		phase: -1,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickSample{}
	p.phase = -1
}

// StartPhase closes the running phase and starts timing the named one.
// Unknown names close the running phase without opening a new slot.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseIndex(phase)
}

// EndTick finishes the current tick and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.current.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	if p.sampleCount < len(p.ring) {
		p.sampleCount++
	}
	p.phase = -1
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// RecordFrame records the interval since the previous frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Keyed by phase name.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, 0-100

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, numPhases),
		PhasePct:      make(map[string]float64, numPhases),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	totals := make([]float64, p.sampleCount)
	var phaseSum [numPhases]float64
	for i, s := range p.ring[:p.sampleCount] {
		totals[i] = float64(s.total)
		for j, d := range s.phases {
			phaseSum[j] += float64(d)
		}
	}

	n := float64(p.sampleCount)
	avg := floats.Sum(totals) / n
	stats.AvgTickDuration = time.Duration(avg)
	stats.MinTickDuration = time.Duration(floats.Min(totals))
	stats.MaxTickDuration = time.Duration(floats.Max(totals))
	if avg > 0 {
		stats.TicksPerSecond = float64(time.Second) / avg
	}

	for j, name := range Phases {
		if phaseSum[j] == 0 {
			continue
		}
		phaseAvg := phaseSum[j] / n
		stats.PhaseAvg[name] = time.Duration(phaseAvg)
		if avg > 0 {
			stats.PhasePct[name] = phaseAvg / avg * 100
		}
	}
	return stats
}

// LogStats logs the stats as one "perf" record.
func (s PerfStats) LogStats(logger *slog.Logger) {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	logger.Info("perf", attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	InputPct      float64 `csv:"input_pct"`
	ControllerPct float64 `csv:"controller_pct"`
	SolverPct     float64 `csv:"solver_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		InputPct:      s.PhasePct[PhaseInput],
		ControllerPct: s.PhasePct[PhaseController],
		SolverPct:     s.PhasePct[PhaseSolver],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
