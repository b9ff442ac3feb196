package profile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/terrain.report/internal/security"
)

// WritePointsCSV writes profile points as CSV with a header row. Absent
// intensity/classification values produce empty fields, never zeros.
func WritePointsCSV(w io.Writer, points []ProfilePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"distance", "x", "y", "z", "intensity", "classification"}); err != nil {
		return fmt.Errorf("profile: write csv header: %w", err)
	}
	for _, p := range points {
		record := []string{
			strconv.FormatFloat(p.Distance, 'f', 3, 64),
			strconv.FormatFloat(p.X, 'f', 3, 64),
			strconv.FormatFloat(p.Y, 'f', 3, 64),
			strconv.FormatFloat(p.Z, 'f', 3, 64),
			"",
			"",
		}
		if p.Intensity != nil {
			record[4] = strconv.FormatFloat(*p.Intensity, 'f', 1, 64)
		}
		if p.Classification != nil {
			record[5] = strconv.Itoa(*p.Classification)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("profile: write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// geoJSONFeature is a GeoJSON Point feature carrying the per-point profile
// attributes as properties.
type geoJSONFeature struct {
	Type       string                 `json:"type"`
	Geometry   geoJSONGeometry        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// WriteGeoJSON writes the points as a GeoJSON FeatureCollection of 3D Point
// features. Optional attributes are omitted from properties when absent.
func WriteGeoJSON(w io.Writer, points []ProfilePoint) error {
	fc := geoJSONCollection{
		Type:     "FeatureCollection",
		Features: make([]geoJSONFeature, 0, len(points)),
	}
	for _, p := range points {
		props := map[string]interface{}{
			"distance": p.Distance,
		}
		if p.Intensity != nil {
			props["intensity"] = *p.Intensity
		}
		if p.Classification != nil {
			props["classification"] = *p.Classification
		}
		fc.Features = append(fc.Features, geoJSONFeature{
			Type: "Feature",
			Geometry: geoJSONGeometry{
				Type:        "Point",
				Coordinates: []float64{p.X, p.Y, p.Z},
			},
			Properties: props,
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("profile: write geojson: %w", err)
	}
	return nil
}

// ExportPointsToASC writes profile points to a CloudCompare-compatible .asc
// file (X Y Z Distance Intensity columns, space separated). Points without
// intensity are written with an empty intensity column.
func ExportPointsToASC(points []ProfilePoint, filePath string) error {
	if len(points) == 0 {
		return fmt.Errorf("profile: no points to export")
	}

	cleanPath := filepath.Clean(filePath)
	if err := security.ValidateExportPath(cleanPath); err != nil {
		return fmt.Errorf("profile: invalid export path: %w", err)
	}

	f, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("profile: create asc file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# Profile points\n")
	fmt.Fprintf(f, "# Format: X Y Z Distance Intensity\n")
	for _, p := range points {
		fmt.Fprintf(f, "%.6f %.6f %.6f %.6f", p.SourceX, p.SourceY, p.SourceZ, p.Distance)
		if p.Intensity != nil {
			fmt.Fprintf(f, " %.1f", *p.Intensity)
		}
		fmt.Fprintln(f)
	}

	log.Printf("exported %d profile points to %s", len(points), cleanPath)
	return nil
}
