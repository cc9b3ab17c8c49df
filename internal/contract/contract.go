// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/commitmood/schema"
)

// CommitSource fetches normalized commit records from a source-hosting service.
// This allows the analysis pipeline to be tested without network access.
type CommitSource interface {
	// Fetch pages through the commit listing of repo until limit records are
	// collected or the listing runs out. On a non rate-limit failure it returns
	// the records fetched so far together with the error.
	Fetch(ctx context.Context, repo schema.RepoRef, limit, pageSize int) ([]schema.CommitRecord, error)
}

// SentimentScorer scores a single piece of text.
type SentimentScorer interface {
	Score(text string) schema.ScoreResult
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCommitStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking analysis runs and their scored commits.
type HistoryStore interface {
	// BeginRun creates a new run for a repository and returns its unique ID
	BeginRun(startTime time.Time, repository string, configParams map[string]any) (int64, error)

	// RecordRows stores the scored commits of a run
	RecordRows(runID int64, rows []schema.AnalysisRow) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, aggregate schema.Aggregate) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every stored run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllCommitScores returns every stored commit score ordered by run and position
	GetAllCommitScores() ([]schema.CommitScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
