package profile

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func extractScenario(t *testing.T) []ProfilePoint {
	t.Helper()
	session, err := NewSession(scenarioLine(t), 5.0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := session.Run(NewSliceSource(scenarioPoints())); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return session.Points
}

func TestWritePointsCSV(t *testing.T) {
	points := extractScenario(t)

	var buf bytes.Buffer
	if err := WritePointsCSV(&buf, points); err != nil {
		t.Fatalf("WritePointsCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(records))
	}
	if records[0][0] != "distance" {
		t.Errorf("header = %v", records[0])
	}

	// First data row: the point at distance 10 with intensity 50.
	if records[1][0] != "10.000" || records[1][4] != "50.0" {
		t.Errorf("row 1 = %v", records[1])
	}
	// Last point has no intensity/classification: fields empty, not zero.
	if records[3][4] != "" || records[3][5] != "" {
		t.Errorf("absent optionals written as %q/%q, want empty", records[3][4], records[3][5])
	}
}

func TestWriteGeoJSON(t *testing.T) {
	points := extractScenario(t)

	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, points); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &fc); err != nil {
		t.Fatalf("unmarshal geojson: %v", err)
	}

	if fc.Type != "FeatureCollection" || len(fc.Features) != 3 {
		t.Fatalf("type=%s features=%d, want FeatureCollection with 3", fc.Type, len(fc.Features))
	}
	for _, f := range fc.Features {
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) != 3 {
			t.Errorf("bad geometry: %+v", f.Geometry)
		}
		if _, ok := f.Properties["distance"]; !ok {
			t.Error("feature missing distance property")
		}
	}

	// The intensity-less point must omit the property entirely.
	last := fc.Features[2]
	if _, ok := last.Properties["intensity"]; ok {
		t.Error("absent intensity exported as a property")
	}
}

func TestExportPointsToASC(t *testing.T) {
	points := extractScenario(t)
	path := filepath.Join(t.TempDir(), "profile.asc")

	if err := ExportPointsToASC(points, path); err != nil {
		t.Fatalf("ExportPointsToASC: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Two header lines plus three points.
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "#") {
		t.Errorf("missing header comment: %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "10.000000 2.000000 5.000000 10.000000 50.0") {
		t.Errorf("unexpected first point line: %q", lines[2])
	}
}

func TestExportPointsToASCEmpty(t *testing.T) {
	if err := ExportPointsToASC(nil, filepath.Join(t.TempDir(), "x.asc")); err == nil {
		t.Error("expected error for empty export")
	}
}
