// profile-analyze runs the elevation profile pipeline against a points file
// and prints a statistics report, optionally exporting the extracted points
// and saving the run to a local database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/terrain.report/internal/config"
	"github.com/banshee-data/terrain.report/internal/geom"
	"github.com/banshee-data/terrain.report/internal/profile"
	"github.com/banshee-data/terrain.report/internal/profiledb"
)

var (
	lineSpec   = flag.String("line", "", "Profile polyline as \"x,y;x,y[;x,y...]\" (required)")
	buffer     = flag.Float64("buffer", config.DefaultBufferM, "Buffer distance around the line, in map units")
	configPath = flag.String("config", "", "Path to a JSON config file")
	csvOut     = flag.String("csv", "", "Write extracted points as CSV to this path")
	geojsonOut = flag.String("geojson", "", "Write extracted points as GeoJSON to this path")
	ascOut     = flag.String("asc", "", "Write extracted points as ASC to this path")
	plotOut    = flag.String("plot", "", "Write a profile plot PNG to this path")
	saveDB     = flag.String("save", "", "Save the run to this runs database")
	quiet      = flag.Bool("quiet", false, "Suppress progress logging")
)

func main() {
	flag.Parse()

	if *lineSpec == "" {
		log.Fatal("a profile line is required (-line \"x,y;x,y\")")
	}
	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] <points-file>", os.Args[0])
	}

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if cfg.BufferM != nil && !flagSet("buffer") {
			*buffer = *cfg.BufferM
		}
	}

	line, err := geom.ParseLineString(*lineSpec)
	if err != nil {
		log.Fatalf("invalid profile line: %v", err)
	}

	session, err := profile.NewSession(line, *buffer)
	if err != nil {
		log.Fatalf("invalid analysis parameters: %v", err)
	}
	if !*quiet {
		lastPct := -1
		session.Progress = func(frac float64) {
			pct := int(frac * 100)
			if pct/10 > lastPct/10 {
				log.Printf("extracting... %d%%", pct)
				lastPct = pct
			}
		}
	}

	src, err := profile.OpenPointsFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to open points file: %v", err)
	}
	defer src.Close()

	result, err := session.Run(src)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	fmt.Print(profile.FormatReport(result))

	if *csvOut != "" {
		writeFile(*csvOut, func(f *os.File) error {
			return profile.WritePointsCSV(f, session.Points)
		})
	}
	if *geojsonOut != "" {
		writeFile(*geojsonOut, func(f *os.File) error {
			return profile.WriteGeoJSON(f, session.Points)
		})
	}
	if *ascOut != "" {
		if err := profile.ExportPointsToASC(session.Points, *ascOut); err != nil {
			log.Fatalf("failed to write ASC: %v", err)
		}
	}
	if *plotOut != "" {
		if err := profile.SaveProfilePlot(session.Points, result, *plotOut); err != nil {
			log.Fatalf("failed to write plot: %v", err)
		}
	}

	if *saveDB != "" {
		db, err := profiledb.NewDB(*saveDB)
		if err != nil {
			log.Fatalf("failed to open runs database: %v", err)
		}
		defer db.Close()

		runID, err := db.SaveRun(line.Vertices(), *buffer, session.Points, result)
		if err != nil {
			log.Fatalf("failed to save run: %v", err)
		}
		fmt.Printf("\nSaved run %s\n", runID)
	}
}

// flagSet reports whether the named flag was given on the command line, so
// explicit flags win over config file values.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func writeFile(path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		log.Fatalf("failed to write %s: %v", path, err)
	}
}
