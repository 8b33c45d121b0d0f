package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated driving statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Ticks           int     `csv:"ticks"`

	// Speed percent distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Boost reserve
	BoostMean float64 `csv:"boost_mean"`
	BoostMin  float64 `csv:"boost_min"`
	BoostMax  float64 `csv:"boost_max"`
	BoostFrac float64 `csv:"boost_frac"` // fraction of ticks spent boosting

	// Contact quality, as fractions of wheel-ticks (slip, off-track) or ticks (airborne)
	SlipFrac     float64 `csv:"slip_frac"`
	OffTrackFrac float64 `csv:"offtrack_frac"`
	AirborneFrac float64 `csv:"airborne_frac"`

	// Events during window
	BoostActivations int `csv:"boost_activations"`
	BoostEmptied     int `csv:"boost_emptied"`
	TrackExits       int `csv:"track_exits"`
	Landings         int `csv:"landings"`

	Distance float64 `csv:"distance"` // metres travelled by the chassis
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarises a sample set.
type Distribution struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Describe calculates mean, sample standard deviation, extremes and
// percentiles. The input slice is not modified. Empty input yields zeros.
func Describe(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}
	d.Min = floats.Min(values)
	d.Max = floats.Max(values)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)

	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("boost_mean", s.BoostMean),
		slog.Float64("boost_frac", s.BoostFrac),
		slog.Float64("slip_frac", s.SlipFrac),
		slog.Float64("offtrack_frac", s.OffTrackFrac),
		slog.Float64("airborne_frac", s.AirborneFrac),
		slog.Int("boost_activations", s.BoostActivations),
		slog.Int("track_exits", s.TrackExits),
		slog.Float64("distance", s.Distance),
	)
}

// LogStats logs the window stats.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"boost_mean", s.BoostMean,
		"boost_min", s.BoostMin,
		"boost_max", s.BoostMax,
		"boost_frac", s.BoostFrac,
		"slip_frac", s.SlipFrac,
		"offtrack_frac", s.OffTrackFrac,
		"airborne_frac", s.AirborneFrac,
		"boost_activations", s.BoostActivations,
		"boost_emptied", s.BoostEmptied,
		"track_exits", s.TrackExits,
		"landings", s.Landings,
		"distance", s.Distance,
	)
}
