package vehicle

import "math"

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// lerp interpolates from a to b by t in [0, 1].
func lerp(a, b, t float64) float64 {
	t = clamp01(t)
	return a + (b-a)*t
}

// inverseLerp returns where x sits between a and b, clamped to [0, 1].
// A zero-width range or a NaN input yields 0; infinities clamp to the ends.
func inverseLerp(a, b, x float64) float64 {
	if a == b {
		return 0
	}
	t := (x - a) / (b - a)
	if math.IsNaN(t) {
		return 0
	}
	return clamp01(t)
}

// finite maps NaN and infinities to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
