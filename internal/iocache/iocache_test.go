package iocache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/commitmood/schema"
)

// The global manager initializes once per process, so this is the only test using it.
func TestInitStoresAndExport(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "cache.db")
	historyPath := filepath.Join(dir, "history.db")

	require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, historyPath))
	defer CloseCaching()

	commits := Manager.GetCommitStore()
	history := Manager.GetHistoryStore()
	require.NotNil(t, commits)
	require.NotNil(t, history)

	// Exporting with no runs is an error
	out := filepath.Join(dir, "export")
	assert.Error(t, ExecuteHistoryExport(out))
	assert.Error(t, ExecuteHistoryExport(""))

	runID, err := history.BeginRun(time.Now(), "a/b", map[string]any{"limit": 2})
	require.NoError(t, err)
	require.NoError(t, history.RecordRows(runID, sampleRows()))
	require.NoError(t, history.EndRun(runID, time.Now(), schema.Aggregate{Total: 2}))

	require.NoError(t, ExecuteHistoryExport(out))
	for _, suffix := range []string{".runs.parquet", ".commit_scores.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	// Subsequent calls keep the first initialization
	require.NoError(t, InitStores("", "", "", ""))
	assert.Same(t, commits, Manager.GetCommitStore())
}

func TestStatusPrinters(t *testing.T) {
	// Smoke test: printing must not panic for either connection state
	PrintCacheStatus(schema.CacheStatus{Backend: "none"})
	PrintCacheStatus(schema.CacheStatus{Backend: "sqlite", Connected: true, TotalEntries: 1, LastEntryTime: time.Now()})
	PrintHistoryStatus(schema.HistoryStatus{Backend: "none"})
	PrintHistoryStatus(schema.HistoryStatus{
		Backend:    "sqlite",
		Connected:  true,
		TotalRuns:  1,
		TableSizes: map[string]int64{runsTable: 1, commitScoresTable: 3},
	})
}
