package profile

import (
	"errors"
	"fmt"
	"io"

	"github.com/banshee-data/terrain.report/internal/geom"
)

// ExtractSummary reports what happened to the raw records during one
// extraction pass.
type ExtractSummary struct {
	// Read counts every record the source yielded, malformed ones included.
	Read int `json:"read"`
	// Accepted records fell within the buffer and became profile points.
	Accepted int `json:"accepted"`
	// Rejected records were well-formed but outside the buffer.
	Rejected int `json:"rejected"`
	// Malformed records could not be parsed and were skipped.
	Malformed int `json:"malformed"`
}

// Extractor filters a raw point source against a buffered profile line and
// tags accepted points with their distance along the line.
type Extractor struct {
	projector *geom.Projector

	// Progress, when set, receives advisory completion fractions in [0, 1]:
	// the furthest along-line distance seen so far over the line length. It
	// is called synchronously during extraction and must be cheap.
	Progress func(fraction float64)
}

// NewExtractor builds an Extractor over the given projector.
func NewExtractor(projector *geom.Projector) *Extractor {
	return &Extractor{projector: projector}
}

// Extract consumes src to exhaustion and returns the accepted profile
// points. The output order follows source order, not distance order; callers
// that need distance ordering must sort explicitly (SortByDistance).
//
// It returns ErrEmptyInput when the source yields zero records. A source
// whose records all fall outside the buffer is not an error: the result is
// an empty slice and the summary shows everything rejected.
func (e *Extractor) Extract(src PointSource) ([]ProfilePoint, ExtractSummary, error) {
	var (
		summary  ExtractSummary
		points   []ProfilePoint
		furthest float64
	)

	lineLength := e.projector.Line().Length()

	for {
		raw, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, ErrMalformedRecord) {
				summary.Read++
				summary.Malformed++
				continue
			}
			return nil, summary, fmt.Errorf("profile: point source failed: %w", err)
		}
		summary.Read++

		pos := geom.Point{X: raw.X, Y: raw.Y}
		if !e.projector.Contains(pos) {
			summary.Rejected++
			continue
		}

		distance := e.projector.Project(pos)
		points = append(points, ProfilePoint{
			X:              raw.X,
			Y:              raw.Y,
			Z:              raw.Z,
			Distance:       distance,
			Intensity:      raw.Intensity,
			Classification: raw.Classification,
			SourceX:        raw.X,
			SourceY:        raw.Y,
			SourceZ:        raw.Z,
		})
		summary.Accepted++

		if e.Progress != nil {
			if distance > furthest {
				furthest = distance
			}
			e.Progress(furthest / lineLength)
		}
	}

	if summary.Read == 0 {
		return nil, summary, ErrEmptyInput
	}
	return points, summary, nil
}
