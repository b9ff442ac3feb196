package profile

import (
	"errors"
	"io"
)

// ErrMalformedRecord marks a single unparseable record in a point source.
// Sources return it from Next for the bad record and keep going; the
// extractor counts these and never aborts on them.
var ErrMalformedRecord = errors.New("profile: malformed point record")

// ErrEmptyInput is returned when a point source yields no records at all.
var ErrEmptyInput = errors.New("profile: point source yielded no records")

// PointSource is a lazy, single-pass iterator over raw point records.
// Next returns io.EOF after the last record, and ErrMalformedRecord for an
// individual record that could not be parsed (the iterator remains usable).
// Any other error is fatal to the extraction.
type PointSource interface {
	Next() (RawPoint, error)
}

// SliceSource adapts an in-memory slice to the PointSource interface.
type SliceSource struct {
	points []RawPoint
	idx    int
}

// NewSliceSource returns a PointSource over points. The slice is not copied;
// callers must not mutate it during extraction.
func NewSliceSource(points []RawPoint) *SliceSource {
	return &SliceSource{points: points}
}

// Next implements PointSource.
func (s *SliceSource) Next() (RawPoint, error) {
	if s.idx >= len(s.points) {
		return RawPoint{}, io.EOF
	}
	p := s.points[s.idx]
	s.idx++
	return p, nil
}

// Reset rewinds the source to the first record, allowing re-extraction over
// the same immutable input.
func (s *SliceSource) Reset() {
	s.idx = 0
}
