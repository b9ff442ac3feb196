package profile

// RawPoint is one record from a point source. Intensity and Classification
// are nil when the source does not carry them; absence is preserved through
// the pipeline rather than mapped to a sentinel value.
type RawPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	Intensity      *float64 `json:"intensity,omitempty"`
	Classification *int     `json:"classification,omitempty"`
}

// ProfilePoint is a point accepted into the profile: its planar position lies
// within the buffer distance of the reference line, and Distance is its
// arc-length projection onto the line, fixed at extraction time.
type ProfilePoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Distance float64 `json:"distance"`

	Intensity      *float64 `json:"intensity,omitempty"`
	Classification *int     `json:"classification,omitempty"`

	// Source coordinates are retained unchanged for traceability and export.
	SourceX float64 `json:"source_x"`
	SourceY float64 `json:"source_y"`
	SourceZ float64 `json:"source_z"`
}

// Float64Ptr returns a pointer to v. Convenience for building optional
// fields in literals.
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
