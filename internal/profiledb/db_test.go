package profiledb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.report/internal/geom"
	"github.com/banshee-data/terrain.report/internal/profile"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testRun(t *testing.T) ([]geom.Point, []profile.ProfilePoint, *profile.AnalysisResult) {
	t.Helper()
	line, err := geom.NewProfileLine([]geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}})
	require.NoError(t, err)

	session, err := profile.NewSession(line, 5.0)
	require.NoError(t, err)

	result, err := session.Run(profile.NewSliceSource([]profile.RawPoint{
		{X: 10, Y: 2, Z: 5, Intensity: profile.Float64Ptr(50)},
		{X: 50, Y: 1, Z: 8, Intensity: profile.Float64Ptr(60)},
		{X: 90, Y: -3, Z: 6},
	}))
	require.NoError(t, err)

	return line.Vertices(), session.Points, result
}

func TestSaveAndGetRun(t *testing.T) {
	db := newTestDB(t)
	line, points, result := testRun(t)

	runID, err := db.SaveRun(line, 5.0, points, result)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	rec, err := db.GetRun(runID)
	require.NoError(t, err)

	assert.Equal(t, runID, rec.RunID)
	assert.Equal(t, 5.0, rec.BufferM)
	assert.Equal(t, line, rec.Line)
	assert.Len(t, rec.Points, 3)
	require.NotNil(t, rec.Result)
	assert.Equal(t, 3, rec.Result.PointCount)
	assert.InDelta(t, 80.0, rec.Result.ProfileLength, 1e-9)

	// Optional fields survive the round trip as present/absent.
	require.NotNil(t, rec.Points[0].Intensity)
	assert.InDelta(t, 50.0, *rec.Points[0].Intensity, 1e-9)
	assert.Nil(t, rec.Points[2].Intensity)

	require.NotNil(t, rec.Result.Intensity)
	assert.InDelta(t, 55.0, rec.Result.Intensity.Mean, 1e-9)
	assert.Nil(t, rec.Result.Roughness)
}

func TestGetRunNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetRun("no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	db := newTestDB(t)
	line, points, result := testRun(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := db.SaveRun(line, 5.0, points, result)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	summaries, err := db.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Newest first.
	assert.Equal(t, ids[2], summaries[0].RunID)
	assert.Equal(t, 3, summaries[0].PointCount)

	limited, err := db.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteRun(t *testing.T) {
	db := newTestDB(t)
	line, points, result := testRun(t)

	runID, err := db.SaveRun(line, 5.0, points, result)
	require.NoError(t, err)

	require.NoError(t, db.DeleteRun(runID))

	_, err = db.GetRun(runID)
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.ErrorIs(t, db.DeleteRun(runID), ErrRunNotFound)
}

func TestSaveEmptyRun(t *testing.T) {
	db := newTestDB(t)
	line, _, _ := testRun(t)

	empty := &profile.AnalysisResult{PointCount: 0, SkippedRecords: 1}
	runID, err := db.SaveRun(line, 5.0, nil, empty)
	require.NoError(t, err)

	rec, err := db.GetRun(runID)
	require.NoError(t, err)
	assert.True(t, rec.Result.Empty())
	assert.Empty(t, rec.Points)
	assert.Equal(t, 1, rec.Result.SkippedRecords)
}
