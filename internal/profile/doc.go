// Package profile implements the elevation-profile analysis pipeline: point
// extraction along a buffered reference polyline, distance-sorted elevation
// and intensity statistics, per-segment slope analysis, and trend-deviation
// roughness metrics.
//
// The pipeline is synchronous and single-pass. A Session owns the inputs and
// outputs of one analysis run; concurrent runs over independent Sessions are
// safe. Raw point sources are consumed lazily so memory scales with the
// filtered profile, not the full cloud.
package profile
