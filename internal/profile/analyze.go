package profile

import (
	"github.com/banshee-data/terrain.report/internal/geom"
)

// AnalysisResult is the value-only aggregate of one analysis run. It is
// rebuilt wholesale on each run; nil stat groups mean "absent", never
// "zero". An empty run (no points in the buffer) has PointCount 0 and all
// groups absent.
type AnalysisResult struct {
	PointCount int `json:"point_count"`
	// ProfileLength is the along-profile span covered by the accepted
	// points (max distance minus min distance), not the polyline length.
	ProfileLength float64 `json:"profile_length"`

	Elevation *SummaryStats   `json:"elevation_stats,omitempty"`
	Intensity *SummaryStats   `json:"intensity_stats,omitempty"`
	Terrain   *TerrainStats   `json:"terrain_stats,omitempty"`
	Roughness *RoughnessStats `json:"roughness_stats,omitempty"`

	// SkippedRecords counts malformed source records dropped during
	// extraction, reported alongside the result rather than failing it.
	SkippedRecords int `json:"skipped_records"`
}

// Empty reports whether the run produced no profile points.
func (r *AnalysisResult) Empty() bool {
	return r.PointCount == 0
}

// Session owns the inputs and outputs of one analysis run: the reference
// line, the buffer distance, the extracted (distance-sorted) points and the
// derived result. It replaces ambient application state with an explicit
// value passed between pipeline stages. A Session is not safe for
// concurrent use; run independent Sessions instead.
type Session struct {
	Line   *geom.ProfileLine
	Buffer float64

	// Progress, when set, receives advisory extraction progress in [0, 1].
	Progress func(fraction float64)

	// Points is the accepted profile point sequence, sorted by distance
	// after Run. Result and Summary are superseded wholesale by each Run.
	Points  []ProfilePoint
	Summary ExtractSummary
	Result  *AnalysisResult
}

// NewSession validates the geometry parameters and prepares a session.
func NewSession(line *geom.ProfileLine, buffer float64) (*Session, error) {
	// Construct the projector up front so degenerate geometry surfaces at
	// session creation, before any source is consumed.
	if _, err := geom.NewProjector(line, buffer); err != nil {
		return nil, err
	}
	return &Session{Line: line, Buffer: buffer}, nil
}

// Run executes the full pipeline over src: extract, sort by distance,
// compute statistics, aggregate. The returned result is also stored on the
// session. Geometry and empty-input errors abort the run with no partial
// result; a run where every record misses the buffer succeeds with an empty
// result so callers can render an explicit "no data" state.
func (s *Session) Run(src PointSource) (*AnalysisResult, error) {
	projector, err := geom.NewProjector(s.Line, s.Buffer)
	if err != nil {
		return nil, err
	}

	extractor := NewExtractor(projector)
	extractor.Progress = s.Progress

	points, summary, err := extractor.Extract(src)
	if err != nil {
		return nil, err
	}

	SortByDistance(points)

	s.Points = points
	s.Summary = summary
	s.Result = Aggregate(points, summary)
	return s.Result, nil
}

// Aggregate merges the statistic groups for a distance-sorted point
// sequence into one AnalysisResult. It does not mutate points.
func Aggregate(sorted []ProfilePoint, summary ExtractSummary) *AnalysisResult {
	result := &AnalysisResult{
		PointCount:     len(sorted),
		SkippedRecords: summary.Malformed,
	}
	if len(sorted) == 0 {
		return result
	}

	// Points are sorted, so the span is last minus first.
	result.ProfileLength = sorted[len(sorted)-1].Distance - sorted[0].Distance
	result.Elevation = ElevationStats(sorted)
	result.Intensity = IntensityStats(sorted)
	result.Terrain = ComputeTerrainStats(sorted)
	result.Roughness = ComputeRoughnessStats(sorted)
	return result
}

// Analyze runs the whole pipeline in one call for callers that do not need
// to keep the session: build line projection, extract from src with the
// given buffer, sort, compute. progress may be nil.
func Analyze(line *geom.ProfileLine, buffer float64, src PointSource, progress func(float64)) (*AnalysisResult, error) {
	session, err := NewSession(line, buffer)
	if err != nil {
		return nil, err
	}
	session.Progress = progress
	return session.Run(src)
}
