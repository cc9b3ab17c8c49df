package iocache

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/commitmood/schema"
)

func sampleRows() []schema.AnalysisRow {
	return []schema.AnalysisRow{
		{
			CommitRecord: schema.CommitRecord{ShortHash: "abc1234", Message: "Add feature", Timestamp: "2024-01-02T03:04:05Z", Author: "Ann"},
			ScoreResult:  schema.ScoreResult{Compound: 0.5, Positive: 0.4, Neutral: 0.6, Label: schema.PositiveLabel},
		},
		{
			CommitRecord: schema.CommitRecord{ShortHash: "def5678", Message: "Update docs", Timestamp: "2024-01-01T03:04:05Z", Author: "Bo"},
			ScoreResult:  schema.ScoreResult{Compound: 0, Neutral: 1, Label: schema.NeutralLabel},
		},
	}
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), "a/b", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)
	assert.NoError(t, store.RecordRows(1, sampleRows()))
	assert.NoError(t, store.EndRun(1, time.Now(), schema.Aggregate{}))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestHistoryStore_SQLite(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	params := map[string]any{"limit": 200, "page_size": 100}

	runID, err := store.BeginRun(start, "octocat/hello-world", params)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	rows := sampleRows()
	require.NoError(t, store.RecordRows(runID, rows))

	agg := schema.Aggregate{Total: 2, PositiveCount: 1, NeutralCount: 1, AverageCompound: 0.25}
	require.NoError(t, store.EndRun(runID, start.Add(1500*time.Millisecond), agg))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Len(t, run.RunUUID, 36)
	assert.Equal(t, "octocat/hello-world", run.Repository)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, int32(2), run.TotalCommits)
	assert.Equal(t, int32(1), run.PositiveCount)
	assert.Equal(t, int32(1), run.NeutralCount)
	require.NotNil(t, run.AverageCompound)
	assert.InDelta(t, 0.25, *run.AverageCompound, 1e-9)
	require.NotNil(t, run.ConfigParams)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &decoded))
	assert.Equal(t, float64(200), decoded["limit"])

	scores, err := store.GetAllCommitScores()
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, int32(0), scores[0].Position)
	assert.Equal(t, "abc1234", scores[0].ShortHash)
	assert.Equal(t, "positive", scores[0].Label)
	assert.Equal(t, "Update docs", scores[1].Message)
	assert.InDelta(t, 1.0, scores[1].Neutral, 1e-9)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 2, status.TotalCommits)
	assert.True(t, start.Equal(status.OldestRunTime))
	assert.Equal(t, int64(1), status.TableSizes[runsTable])
	assert.Equal(t, int64(2), status.TableSizes[commitScoresTable])
}

func TestHistoryStore_UnfinishedRun(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.BeginRun(time.Now(), "a/b", nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
	assert.Nil(t, runs[0].AverageCompound)
}

func TestHistoryStore_EndUnknownRun(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EndRun(99, time.Now(), schema.Aggregate{}))
}

func TestHistoryStore_DuplicatePositionRollsBack(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "a/b", nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordRows(runID, sampleRows()))

	// Same run and positions violate the primary key
	assert.Error(t, store.RecordRows(runID, sampleRows()))

	scores, err := store.GetAllCommitScores()
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1)) // no-op
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 2))

	// The store accepts a migrated database as is
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "a/b", nil)
	require.NoError(t, err)
	assert.NoError(t, store.RecordRows(runID, sampleRows()))
}

func TestMigrationsEmbedded(t *testing.T) {
	for _, backend := range []string{"sqlite", "mysql", "postgresql"} {
		entries, err := migrationsFS.ReadDir("migrations/" + backend)
		require.NoError(t, err, backend)
		assert.Len(t, entries, 4, backend)
	}
}
