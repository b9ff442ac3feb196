// Package profiledb persists analysis runs (parameters, extracted points and
// results) in a local SQLite database.
package profiledb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/terrain.report/internal/geom"
	"github.com/banshee-data/terrain.report/internal/profile"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("profiledb: run not found")

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the runs database at path and ensures the
// baseline schema exists. Schema evolution beyond the baseline goes through
// the Migrate* methods.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id            TEXT PRIMARY KEY,
			created_at        TEXT NOT NULL,
			line_json         TEXT NOT NULL,
			buffer_m          DOUBLE NOT NULL,
			point_count       BIGINT NOT NULL,
			profile_length    DOUBLE NOT NULL,
			skipped_records   BIGINT NOT NULL,
			result_json       TEXT NOT NULL,
			points_json       TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at
			ON analysis_runs (created_at);
	`)
	if err != nil {
		return nil, fmt.Errorf("profiledb: create schema: %w", err)
	}

	return &DB{db}, nil
}

// RunSummary is the lightweight listing view of a stored run.
type RunSummary struct {
	RunID         string    `json:"run_id"`
	CreatedAt     time.Time `json:"created_at"`
	BufferM       float64   `json:"buffer_m"`
	PointCount    int       `json:"point_count"`
	ProfileLength float64   `json:"profile_length"`
}

// RunRecord is a fully hydrated stored run.
type RunRecord struct {
	RunID     string                  `json:"run_id"`
	CreatedAt time.Time               `json:"created_at"`
	Line      []geom.Point            `json:"line"`
	BufferM   float64                 `json:"buffer_m"`
	Result    *profile.AnalysisResult `json:"result"`
	Points    []profile.ProfilePoint  `json:"points"`
}

// SaveRun stores one completed analysis run and returns its generated ID.
func (db *DB) SaveRun(line []geom.Point, bufferM float64, points []profile.ProfilePoint, result *profile.AnalysisResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("profiledb: nil result")
	}

	lineJSON, err := json.Marshal(line)
	if err != nil {
		return "", fmt.Errorf("profiledb: marshal line: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("profiledb: marshal result: %w", err)
	}
	if points == nil {
		points = []profile.ProfilePoint{}
	}
	pointsJSON, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("profiledb: marshal points: %w", err)
	}

	runID := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = db.Exec(
		`INSERT INTO analysis_runs (
			run_id, created_at, line_json, buffer_m, point_count,
			profile_length, skipped_records, result_json, points_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, createdAt, string(lineJSON), bufferM, result.PointCount,
		result.ProfileLength, result.SkippedRecords, string(resultJSON), string(pointsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("profiledb: insert run: %w", err)
	}
	return runID, nil
}

// GetRun loads a stored run by ID.
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	var (
		rec        RunRecord
		createdAt  string
		lineJSON   string
		resultJSON string
		pointsJSON string
	)
	err := db.QueryRow(
		`SELECT run_id, created_at, line_json, buffer_m, result_json, points_json
		 FROM analysis_runs WHERE run_id = ?`, runID,
	).Scan(&rec.RunID, &createdAt, &lineJSON, &rec.BufferM, &resultJSON, &pointsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profiledb: query run: %w", err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("profiledb: parse created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(lineJSON), &rec.Line); err != nil {
		return nil, fmt.Errorf("profiledb: unmarshal line: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("profiledb: unmarshal result: %w", err)
	}
	if err := json.Unmarshal([]byte(pointsJSON), &rec.Points); err != nil {
		return nil, fmt.Errorf("profiledb: unmarshal points: %w", err)
	}
	return &rec, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// defaults to 50.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.Query(
		`SELECT run_id, created_at, buffer_m, point_count, profile_length
		 FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("profiledb: list runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var (
			s         RunSummary
			createdAt string
		)
		if err := rows.Scan(&s.RunID, &createdAt, &s.BufferM, &s.PointCount, &s.ProfileLength); err != nil {
			return nil, fmt.Errorf("profiledb: scan run: %w", err)
		}
		s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("profiledb: parse created_at: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteRun removes a stored run. Deleting an unknown ID returns
// ErrRunNotFound.
func (db *DB) DeleteRun(runID string) error {
	res, err := db.Exec(`DELETE FROM analysis_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("profiledb: delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}
