package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReaderSource streams point records from line-oriented text: one point per
// line as "X Y Z [Intensity [Classification]]", whitespace- or
// comma-delimited. Lines starting with '#' and blank lines are skipped.
// This covers both CloudCompare-style .asc exports and plain CSV dumps.
type ReaderSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	header  bool
}

// NewReaderSource wraps r in a ReaderSource.
func NewReaderSource(r io.Reader) *ReaderSource {
	sc := bufio.NewScanner(r)
	// Allow long lines from dense exports.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReaderSource{scanner: sc}
}

// OpenPointsFile opens path as a point source. Call Close when done.
func OpenPointsFile(path string) (*ReaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profile: open points file: %w", err)
	}
	src := NewReaderSource(f)
	src.closer = f
	return src, nil
}

// Close releases the underlying file, if any.
func (r *ReaderSource) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Next implements PointSource. A line whose first three fields do not parse
// as floats yields ErrMalformedRecord; a non-numeric header row at the top
// of the file is tolerated silently.
func (r *ReaderSource) Next() (RawPoint, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := splitFields(text)
		if len(fields) < 3 {
			return RawPoint{}, fmt.Errorf("%w: line %d: want at least 3 fields, got %d", ErrMalformedRecord, r.line, len(fields))
		}

		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		z, errZ := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil || errZ != nil {
			if r.line == 1 && !r.header {
				// Column header row, e.g. "x,y,z,intensity".
				r.header = true
				continue
			}
			return RawPoint{}, fmt.Errorf("%w: line %d: non-numeric coordinates", ErrMalformedRecord, r.line)
		}

		p := RawPoint{X: x, Y: y, Z: z}
		if len(fields) >= 4 && fields[3] != "" {
			if v, err := strconv.ParseFloat(fields[3], 64); err == nil {
				p.Intensity = &v
			}
		}
		if len(fields) >= 5 && fields[4] != "" {
			if v, err := strconv.Atoi(fields[4]); err == nil {
				p.Classification = &v
			}
		}
		return p, nil
	}
	if err := r.scanner.Err(); err != nil {
		return RawPoint{}, fmt.Errorf("profile: read points: %w", err)
	}
	return RawPoint{}, io.EOF
}

// splitFields splits on commas if present, otherwise on whitespace.
func splitFields(line string) []string {
	if strings.Contains(line, ",") {
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return strings.Fields(line)
}
