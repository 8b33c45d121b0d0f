package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/fmxar/racer/config"
	"github.com/fmxar/racer/input"
	"github.com/fmxar/racer/sim"
	"github.com/fmxar/racer/telemetry"
)

// FitnessEvaluator runs headless sessions and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	variants    []float64 // steering multipliers applied to the script
	baseConfig  *config.Config
	statsWindow float64

	mu           sync.Mutex
	bestFitness  float64
	bestWindows  []telemetry.WindowStats
	lastQuality  float64
	lastDistance float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, variants []float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		variants:    variants,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the window stats of the best variant from the best evaluation.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastDistance returns the mean on-track distance from the most recent evaluation.
func (fe *FitnessEvaluator) LastDistance() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDistance
}

// runResult holds the results from a single session run.
type runResult struct {
	windows []telemetry.WindowStats
}

// variantResult holds the result from one script variant.
type variantResult struct {
	fitness  float64
	quality  float64
	distance float64
	windows  []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative on-track distance scaled by handling quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]variantResult, len(fe.variants))
	var wg sync.WaitGroup

	for i, steer := range fe.variants {
		wg.Add(1)
		go func(idx int, steerScale float64) {
			defer wg.Done()
			r := fe.runSession(x, steerScale)
			quality := computeQuality(r.windows)
			distance := onTrackDistance(r.windows)
			results[idx] = variantResult{
				fitness:  computeFitness(distance, quality),
				quality:  quality,
				distance: distance,
				windows:  r.windows,
			}
		}(i, steer)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalDistance float64
	bestVariant := math.Inf(1)
	var bestVariantWindows []telemetry.WindowStats
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalDistance += r.distance
		if r.fitness < bestVariant {
			bestVariant = r.fitness
			bestVariantWindows = r.windows
		}
	}

	n := float64(len(fe.variants))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestWindows = bestVariantWindows
	}
	fe.lastQuality = totalQuality / n
	fe.lastDistance = totalDistance / n
	fe.mu.Unlock()

	return avgFitness
}

// runSession drives one headless session with the scripted input, steering
// scaled by steerScale, for maxTicks.
func (fe *FitnessEvaluator) runSession(x []float64, steerScale float64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.StatsWindow = fe.statsWindow
	cfg.Headless = scaledScript(cfg.Headless, steerScale)

	result := &runResult{}
	session, err := sim.NewSession(cfg, input.NewScriptSource(cfg.Headless), sim.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})
	if err != nil {
		slog.Error("session setup failed", "error", err)
		return result
	}
	defer session.Close()

	for session.Tick() < fe.maxTicks {
		session.Step()
	}
	return result
}

// copyConfig returns a copy of the base config whose tuned sections can be
// changed without touching the base. Slices are shared and read-only.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// scaledScript returns a copy of h with every segment's steering scaled.
func scaledScript(h config.HeadlessConfig, steerScale float64) config.HeadlessConfig {
	script := make([]config.ScriptSegment, len(h.Script))
	for i, seg := range h.Script {
		seg.Steer = math.Max(-1, math.Min(1, seg.Steer*steerScale))
		script[i] = seg
	}
	h.Script = script
	return h
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(distance × (1.0 + 0.2 × quality))
func computeFitness(distance, quality float64) float64 {
	return -(distance * (1.0 + 0.2*quality))
}

// onTrackDistance sums the distance covered with all grounded wheels on the track.
func onTrackDistance(windows []telemetry.WindowStats) float64 {
	var d float64
	for _, w := range windows {
		d += w.Distance * (1 - w.OffTrackFrac)
	}
	return d
}

// Quality component weights.
const (
	qualityWeightGrip      = 0.35
	qualityWeightTrack     = 0.30
	qualityWeightBoost     = 0.20
	qualityWeightStability = 0.15

	qualityWarmupWindows = 1 // skip the standing start
)

// computeQuality computes handling quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var gripSum, trackSum, boostSum float64
	speeds := make([]float64, 0, len(valid))
	for _, w := range valid {
		gripSum += 1 - w.SlipFrac
		trackSum += 1 - math.Max(w.OffTrackFrac, w.AirborneFrac)
		// Boost that is used but rarely runs dry.
		used := math.Min(1, w.BoostFrac*4)
		starved := 0.0
		if w.BoostEmptied > 0 {
			starved = 0.5
		}
		boostSum += used * (1 - starved)
		speeds = append(speeds, w.SpeedMean)
	}

	n := float64(len(valid))
	stability := 0.0
	if len(speeds) >= 2 {
		c := cv(speeds)
		stability = math.Exp(-c * c)
	}

	quality := qualityWeightGrip*gripSum/n +
		qualityWeightTrack*trackSum/n +
		qualityWeightBoost*boostSum/n +
		qualityWeightStability*stability

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	d := telemetry.Describe(values)
	if d.Mean == 0 {
		return 0
	}
	return d.Std / d.Mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
