// Package geom provides the planar geometry used by profile analysis:
// reference polylines and arc-length projection of nearby points onto them.
package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrDegenerateLine is returned when a polyline has fewer than two distinct
// vertices or zero total length. Such a line has no usable arc-length axis.
var ErrDegenerateLine = errors.New("geom: degenerate profile line")

// Point is a planar coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProfileLine is an immutable reference polyline. Construct with
// NewProfileLine; the zero value is not usable.
type ProfileLine struct {
	vertices []Point
	// cum[i] is the arc length from the line start to vertices[i].
	cum    []float64
	length float64
}

// NewProfileLine validates and builds a polyline from an ordered vertex list.
// It returns ErrDegenerateLine for fewer than two distinct vertices or a
// zero-length line.
func NewProfileLine(vertices []Point) (*ProfileLine, error) {
	if len(vertices) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 vertices, got %d", ErrDegenerateLine, len(vertices))
	}

	pts := make([]Point, len(vertices))
	copy(pts, vertices)

	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}

	length := cum[len(cum)-1]
	if length <= 0 {
		return nil, fmt.Errorf("%w: all vertices coincide", ErrDegenerateLine)
	}

	return &ProfileLine{vertices: pts, cum: cum, length: length}, nil
}

// ParseLineString parses a polyline from a compact "x,y;x,y;..." string, the
// format used by the CLI and config files.
func ParseLineString(s string) (*ProfileLine, error) {
	var vertices []Point
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("geom: invalid vertex %q: want \"x,y\"", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("geom: invalid x in vertex %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("geom: invalid y in vertex %q: %w", pair, err)
		}
		vertices = append(vertices, Point{X: x, Y: y})
	}
	return NewProfileLine(vertices)
}

// Length returns the total arc length of the polyline.
func (l *ProfileLine) Length() float64 {
	return l.length
}

// Vertices returns a copy of the vertex list.
func (l *ProfileLine) Vertices() []Point {
	out := make([]Point, len(l.vertices))
	copy(out, l.vertices)
	return out
}

// nearest returns the shortest distance from p to the polyline and the arc
// length from the line start to the closest point on the line.
func (l *ProfileLine) nearest(p Point) (dist, along float64) {
	dist = math.Inf(1)
	for i := 0; i < len(l.vertices)-1; i++ {
		d, t := distToSegment(p, l.vertices[i], l.vertices[i+1])
		if d < dist {
			dist = d
			along = l.cum[i] + t*(l.cum[i+1]-l.cum[i])
		}
	}
	return dist, along
}

// distToSegment returns the distance from p to segment ab and the normalized
// position t in [0, 1] of the closest point along the segment.
func distToSegment(p, a, b Point) (dist, t float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		// Zero-length segment inside an otherwise valid polyline.
		return math.Hypot(p.X-a.X, p.Y-a.Y), 0
	}
	t = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx := a.X + t*dx
	cy := a.Y + t*dy
	return math.Hypot(p.X-cx, p.Y-cy), t
}

// Projector answers containment and arc-length projection queries for points
// near a profile line, within a fixed buffer distance.
type Projector struct {
	line   *ProfileLine
	buffer float64
}

// NewProjector builds a Projector for line with the given buffer distance.
// The buffer must be positive.
func NewProjector(line *ProfileLine, buffer float64) (*Projector, error) {
	if line == nil {
		return nil, fmt.Errorf("%w: nil line", ErrDegenerateLine)
	}
	if buffer <= 0 || math.IsNaN(buffer) {
		return nil, fmt.Errorf("geom: buffer distance must be positive, got %v", buffer)
	}
	return &Projector{line: line, buffer: buffer}, nil
}

// Line returns the reference polyline.
func (pr *Projector) Line() *ProfileLine {
	return pr.line
}

// Buffer returns the buffer distance.
func (pr *Projector) Buffer() float64 {
	return pr.buffer
}

// Contains reports whether p lies within the buffer distance of the line.
func (pr *Projector) Contains(p Point) bool {
	d, _ := pr.line.nearest(p)
	return d <= pr.buffer
}

// Project returns the arc length from the line start to the point on the
// line nearest to p. The result is always in [0, Length]. Callers should
// gate on Contains first; for points far outside the buffer the value is
// still finite but carries no meaning for profile analysis.
func (pr *Projector) Project(p Point) float64 {
	_, along := pr.line.nearest(p)
	return along
}
