package profile

import (
	"fmt"
	"strings"
)

// FormatReport renders a plain-text statistics report for one analysis run,
// suitable for terminals and the /report API endpoint.
func FormatReport(result *AnalysisResult) string {
	var b strings.Builder

	b.WriteString("=== PROFILE ANALYSIS ===\n\n")

	if result.Empty() {
		b.WriteString("No points within the profile buffer.\n")
		if result.SkippedRecords > 0 {
			fmt.Fprintf(&b, "Skipped malformed records: %d\n", result.SkippedRecords)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Points: %d\n", result.PointCount)
	fmt.Fprintf(&b, "Profile length: %.2f m\n", result.ProfileLength)
	if result.SkippedRecords > 0 {
		fmt.Fprintf(&b, "Skipped malformed records: %d\n", result.SkippedRecords)
	}
	b.WriteString("\n")

	if e := result.Elevation; e != nil {
		b.WriteString("--- Elevation ---\n")
		fmt.Fprintf(&b, "Min:   %.2f m\n", e.Min)
		fmt.Fprintf(&b, "Max:   %.2f m\n", e.Max)
		fmt.Fprintf(&b, "Mean:  %.2f m\n", e.Mean)
		fmt.Fprintf(&b, "Std:   %.2f m\n", e.Std)
		fmt.Fprintf(&b, "Range: %.2f m\n\n", e.Range)
	}

	if in := result.Intensity; in != nil {
		b.WriteString("--- Intensity ---\n")
		fmt.Fprintf(&b, "Min:  %.0f\n", in.Min)
		fmt.Fprintf(&b, "Max:  %.0f\n", in.Max)
		fmt.Fprintf(&b, "Mean: %.1f\n", in.Mean)
		fmt.Fprintf(&b, "Std:  %.1f\n\n", in.Std)
	}

	if t := result.Terrain; t != nil {
		b.WriteString("--- Terrain ---\n")
		fmt.Fprintf(&b, "Mean slope: %.2f°\n", t.MeanSlope)
		fmt.Fprintf(&b, "Max slope:  %.2f°\n", t.MaxSlope)
		fmt.Fprintf(&b, "Min slope:  %.2f°\n", t.MinSlope)
		fmt.Fprintf(&b, "Slope std:  %.2f°\n\n", t.SlopeStd)
	}

	if r := result.Roughness; r != nil {
		b.WriteString("--- Roughness ---\n")
		fmt.Fprintf(&b, "Roughness index: %.3f m\n", r.RoughnessIndex)
		fmt.Fprintf(&b, "Trend slope:     %.6f\n", r.TrendSlope)
		fmt.Fprintf(&b, "Trend intercept: %.3f m\n", r.TrendIntercept)
		fmt.Fprintf(&b, "Max deviation:   %.3f m\n", r.MaxDeviation)
	}

	return b.String()
}
