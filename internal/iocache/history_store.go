package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

// Table names for run history.
const (
	runsTable         = "commitmood_runs"
	commitScoresTable = "commitmood_commit_scores"
)

// historyTables lists the history tables in dependency order.
var historyTables = []string{runsTable, commitScoresTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := map[string]string{
		runsTable:         getCreateRunsQuery(backend),
		commitScoresTable: getCreateCommitScoresQuery(backend),
	}
	for _, table := range historyTables {
		if _, err := db.Exec(queries[table]); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for commitmood_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				repository VARCHAR(255) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_commits INT NOT NULL DEFAULT 0,
				positive_count INT NOT NULL DEFAULT 0,
				neutral_count INT NOT NULL DEFAULT 0,
				negative_count INT NOT NULL DEFAULT 0,
				average_compound DOUBLE,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				repository TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_commits INT NOT NULL DEFAULT 0,
				positive_count INT NOT NULL DEFAULT 0,
				neutral_count INT NOT NULL DEFAULT 0,
				negative_count INT NOT NULL DEFAULT 0,
				average_compound DOUBLE PRECISION,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				repository TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_commits INTEGER NOT NULL DEFAULT 0,
				positive_count INTEGER NOT NULL DEFAULT 0,
				neutral_count INTEGER NOT NULL DEFAULT 0,
				negative_count INTEGER NOT NULL DEFAULT 0,
				average_compound REAL,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateCommitScoresQuery returns the CREATE TABLE query for commitmood_commit_scores.
func getCreateCommitScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(commitScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INT NOT NULL,
				short_hash VARCHAR(40) NOT NULL,
				author VARCHAR(255) NOT NULL,
				commit_date VARCHAR(64) NOT NULL,
				message TEXT NOT NULL,
				compound DOUBLE NOT NULL,
				positive DOUBLE NOT NULL,
				neutral DOUBLE NOT NULL,
				negative DOUBLE NOT NULL,
				label VARCHAR(16) NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INT NOT NULL,
				short_hash TEXT NOT NULL,
				author TEXT NOT NULL,
				commit_date TEXT NOT NULL,
				message TEXT NOT NULL,
				compound DOUBLE PRECISION NOT NULL,
				positive DOUBLE PRECISION NOT NULL,
				neutral DOUBLE PRECISION NOT NULL,
				negative DOUBLE PRECISION NOT NULL,
				label TEXT NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				position INTEGER NOT NULL,
				short_hash TEXT NOT NULL,
				author TEXT NOT NULL,
				commit_date TEXT NOT NULL,
				message TEXT NOT NULL,
				compound REAL NOT NULL,
				positive REAL NOT NULL,
				neutral REAL NOT NULL,
				negative REAL NOT NULL,
				label TEXT NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run for a repository and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, repository string, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	args := []any{uuid.NewString(), repository, formatTime(startTime, hs.backend), string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, repository, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, repository, start_time, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordRows stores the scored rows of a run in one transaction.
func (hs *HistoryStoreImpl) RecordRows(runID int64, rows []schema.AnalysisRow) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil || len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, position, short_hash, author, commit_date, message,
		                compound, positive, neutral, negative, label)
		VALUES (%s)
	`, quoteTableName(commitScoresTable, hs.backend), placeholders(hs.backend, 11))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		if _, err := stmt.Exec(
			runID, i, row.ShortHash, row.Author, row.Timestamp, row.Message,
			row.Compound, row.Positive, row.Neutral, row.Negative, string(row.Label),
		); err != nil {
			return fmt.Errorf("failed to insert commit score %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit commit scores: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, aggregate schema.Aggregate) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	// Get the start_time to calculate duration
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	var startRaw any
	if err := hs.db.QueryRow(query, runID).Scan(&startRaw); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := scanTime(startRaw)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_commits = $3,
			positive_count = $4, neutral_count = $5, negative_count = $6, average_compound = $7 WHERE run_id = $8`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_commits = ?,
			positive_count = ?, neutral_count = ?, negative_count = ?, average_compound = ? WHERE run_id = ?`, quotedTableName)
	}

	_, err = hs.db.Exec(updateQuery,
		formatTime(endTime, hs.backend), durationMs, aggregate.Total,
		aggregate.PositiveCount, aggregate.NeutralCount, aggregate.NegativeCount, aggregate.AverageCompound,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRaw, oldestRaw any
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRaw); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := scanTime(lastRaw)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		if err := hs.db.QueryRow(oldestRunQuery).Scan(&oldestRaw); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestRunTime, err := scanTime(oldestRaw)
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		commitsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_commits), 0) FROM %s", quotedRuns)
		if err := hs.db.QueryRow(commitsQuery).Scan(&status.TotalCommits); err != nil {
			return status, fmt.Errorf("failed to get total commits: %w", err)
		}
	}

	for _, table := range historyTables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, repository, start_time, end_time, run_duration_ms,
		total_commits, positive_count, neutral_count, negative_count, average_compound, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var startRaw, endRaw any
		if err := rows.Scan(&record.RunID, &record.RunUUID, &record.Repository, &startRaw, &endRaw,
			&record.RunDurationMs, &record.TotalCommits, &record.PositiveCount, &record.NeutralCount,
			&record.NegativeCount, &record.AverageCompound, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if record.StartTime, err = scanTime(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := scanTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllCommitScores retrieves every scored commit from the store.
func (hs *HistoryStoreImpl) GetAllCommitScores() ([]schema.CommitScoreRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, position, short_hash, author, commit_date, message,
		compound, positive, neutral, negative, label
		FROM %s ORDER BY run_id, position`, quoteTableName(commitScoresTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query commit scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CommitScoreRecord
	for rows.Next() {
		var record schema.CommitScoreRecord
		if err := rows.Scan(&record.RunID, &record.Position, &record.ShortHash, &record.Author,
			&record.CommitDate, &record.Message, &record.Compound, &record.Positive,
			&record.Neutral, &record.Negative, &record.Label); err != nil {
			return nil, fmt.Errorf("failed to scan commit score: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commit scores: %w", err)
	}
	return results, nil
}
