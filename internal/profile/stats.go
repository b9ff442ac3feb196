package profile

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Minimum point counts below which the optional statistic groups are absent.
const (
	minTerrainPoints   = 3
	minRoughnessPoints = 5
)

// SummaryStats are descriptive statistics over one scalar attribute.
// Std is the population standard deviation.
type SummaryStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Range float64 `json:"range"`
}

// TerrainStats describe per-segment slope angles between consecutive
// distance-sorted points.
type TerrainStats struct {
	// Slopes holds one angle in degrees per consecutive point pair with
	// distinct distances, in along-profile order.
	Slopes    []float64 `json:"slopes"`
	MeanSlope float64   `json:"mean_slope"`
	MaxSlope  float64   `json:"max_slope"`
	MinSlope  float64   `json:"min_slope"`
	SlopeStd  float64   `json:"slope_std"`
}

// RoughnessStats describe elevation deviation from a fitted linear trend.
type RoughnessStats struct {
	// RoughnessIndex is the population standard deviation of the residuals.
	RoughnessIndex float64 `json:"roughness_index"`
	TrendSlope     float64 `json:"trend_slope"`
	TrendIntercept float64 `json:"trend_intercept"`
	MaxDeviation   float64 `json:"max_deviation"`
	// Deviations parallels the distance-sorted point sequence.
	Deviations []float64 `json:"deviations"`
}

// SortByDistance stably sorts points by ascending distance along the
// profile. The statistics functions below assume this ordering; the pipeline
// sorts exactly once, after extraction.
func SortByDistance(points []ProfilePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Distance < points[j].Distance
	})
}

func summarize(values []float64) SummaryStats {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return SummaryStats{
		Min:   min,
		Max:   max,
		Mean:  stat.Mean(values, nil),
		Std:   stat.PopStdDev(values, nil),
		Range: max - min,
	}
}

// ElevationStats computes descriptive statistics over point elevations.
// Returns nil for an empty slice.
func ElevationStats(points []ProfilePoint) *SummaryStats {
	if len(points) == 0 {
		return nil
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Z
	}
	s := summarize(values)
	return &s
}

// IntensityStats computes descriptive statistics over the points that carry
// an intensity value. Points without intensity are excluded, not treated as
// zero. Returns nil when no point carries intensity.
func IntensityStats(points []ProfilePoint) *SummaryStats {
	var values []float64
	for _, p := range points {
		if p.Intensity != nil {
			values = append(values, *p.Intensity)
		}
	}
	if len(values) == 0 {
		return nil
	}
	s := summarize(values)
	return &s
}

// ComputeTerrainStats derives per-segment slope angles from a
// distance-sorted point sequence. Pairs with equal distance are skipped to
// avoid division by zero; they contribute no slope at all. Returns nil for
// fewer than 3 points.
func ComputeTerrainStats(sorted []ProfilePoint) *TerrainStats {
	if len(sorted) < minTerrainPoints {
		return nil
	}

	slopes := []float64{}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		dd := cur.Distance - prev.Distance
		if dd == 0 {
			continue
		}
		grade := (cur.Z - prev.Z) / dd
		slopes = append(slopes, math.Atan(grade)*180/math.Pi)
	}

	ts := &TerrainStats{Slopes: slopes}
	if len(slopes) == 0 {
		return ts
	}

	min, max := slopes[0], slopes[0]
	for _, s := range slopes[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	ts.MeanSlope = stat.Mean(slopes, nil)
	ts.MaxSlope = max
	ts.MinSlope = min
	ts.SlopeStd = stat.PopStdDev(slopes, nil)
	return ts
}

// ComputeRoughnessStats fits a least-squares linear trend to elevation over
// distance and measures residual spread. Requires a distance-sorted
// sequence so the deviations array lines up with downstream plots. Returns
// nil for fewer than 5 points.
func ComputeRoughnessStats(sorted []ProfilePoint) *RoughnessStats {
	if len(sorted) < minRoughnessPoints {
		return nil
	}

	distances := make([]float64, len(sorted))
	elevations := make([]float64, len(sorted))
	for i, p := range sorted {
		distances[i] = p.Distance
		elevations[i] = p.Z
	}

	intercept, slope := stat.LinearRegression(distances, elevations, nil, false)

	deviations := make([]float64, len(sorted))
	maxDev := 0.0
	for i := range sorted {
		deviations[i] = elevations[i] - (intercept + slope*distances[i])
		if abs := math.Abs(deviations[i]); abs > maxDev {
			maxDev = abs
		}
	}

	return &RoughnessStats{
		RoughnessIndex: stat.PopStdDev(deviations, nil),
		TrendSlope:     slope,
		TrendIntercept: intercept,
		MaxDeviation:   maxDev,
		Deviations:     deviations,
	}
}
