// Package sim wires input, vehicle controller, solver and telemetry into a
// fixed-timestep driving session.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/input"
	"github.com/fmxar/racer/systems"
	"github.com/fmxar/racer/telemetry"
	"github.com/fmxar/racer/vehicle"
)

// ErrNoSource is returned when a session is created without an input source.
var ErrNoSource = errors.New("sim: input source is required")

// Options configures a session.
type Options struct {
	Logger        *slog.Logger
	OutputDir     string                      // CSV output directory (empty = disabled)
	LogStats      bool                        // log window stats and bookmarks
	StatsCallback func(telemetry.WindowStats) // called after each stats window
}

// Session owns one vehicle on the bench solver and advances it in fixed ticks.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger
	opts   Options

	source input.Source
	solver *systems.Solver
	ctrl   *vehicle.Controller
	state  vehicle.State

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager

	tick         int32
	lastPos      mgl64.Vec3
	inputEnabled bool
}

// NewSession builds the solver and vehicle from cfg and prepares telemetry.
func NewSession(cfg *config.Config, source input.Source, opts Options) (*Session, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		cfg:           cfg,
		logger:        logger,
		opts:          opts,
		source:        source,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		inputEnabled:  true,
	}

	if err := s.build(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}
	s.outputManager = om

	return s, nil
}

// build discards any previous vehicle and creates a fresh one at the start pose.
func (s *Session) build() error {
	solver := systems.NewSolver(s.cfg)
	ctrl, err := vehicle.New(s.cfg, solver, s.logger)
	if err != nil {
		return fmt.Errorf("building vehicle: %w", err)
	}
	ctrl.SetUserInputEnabled(s.inputEnabled)

	s.solver = solver
	s.ctrl = ctrl
	s.state = ctrl.State()
	s.lastPos, _ = solver.Pose()
	return nil
}

// Step runs one fixed tick: sample input, run the controller pipeline, step
// the solver, record telemetry.
func (s *Session) Step() {
	dt := s.cfg.Physics.DT
	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseInput)
	if adv, ok := s.source.(input.Advancer); ok {
		adv.Advance(dt)
	}
	in := s.source.Sample()

	s.perfCollector.StartPhase(telemetry.PhaseController)
	s.ctrl.Tick(in, dt)

	s.perfCollector.StartPhase(telemetry.PhaseSolver)
	s.solver.Step(dt)

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.tick++
	s.state = s.ctrl.State()
	pos, _ := s.solver.Pose()
	travelled := pos.Sub(s.lastPos).Len()
	s.lastPos = pos

	events := s.collector.RecordTick(s.tick, s.state, travelled)
	s.recordEvents(events)
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// Reset rebuilds the vehicle at the start pose and restarts telemetry
// windows. The input gate keeps its current value.
func (s *Session) Reset() error {
	if err := s.build(); err != nil {
		return err
	}
	if r, ok := s.source.(interface{ Reset() }); ok {
		r.Reset()
	}
	s.tick = 0
	s.collector.Reset(0)
	s.bookmarks.Reset()
	s.logger.Info("session reset")
	return nil
}

// SetUserInputEnabled gates driver input on the controller.
func (s *Session) SetUserInputEnabled(enabled bool) {
	s.inputEnabled = enabled
	s.ctrl.SetUserInputEnabled(enabled)
}

// UserInputEnabled reports whether driver input is applied.
func (s *Session) UserInputEnabled() bool { return s.inputEnabled }

// SetSource replaces the input source.
func (s *Session) SetSource(source input.Source) error {
	if source == nil {
		return ErrNoSource
	}
	s.source = source
	return nil
}

// Source returns the active input source.
func (s *Session) Source() input.Source { return s.source }

// State returns the state published after the last tick.
func (s *Session) State() vehicle.State { return s.state }

// Tick returns the number of ticks run since construction or the last reset.
func (s *Session) Tick() int32 { return s.tick }

// SimTime returns the simulated time in seconds.
func (s *Session) SimTime() float64 { return float64(s.tick) * s.cfg.Physics.DT }

// Solver exposes the bench solver for drawing.
func (s *Session) Solver() *systems.Solver { return s.solver }

// Controller exposes the vehicle controller.
func (s *Session) Controller() *vehicle.Controller { return s.ctrl }

// Perf returns the session performance collector.
func (s *Session) Perf() *telemetry.PerfCollector { return s.perfCollector }

// Config returns the session configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// OutputDir returns the telemetry output directory, or "" when disabled.
func (s *Session) OutputDir() string { return s.outputManager.Dir() }

// Close flushes and closes telemetry output.
func (s *Session) Close() error {
	return s.outputManager.Close()
}
