// Package parquet provides data structures and functions for exporting commitmood
// rows, comparisons and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/commitmood/schema"
)

// CommitSentiment is one scored commit of an analysis.
type CommitSentiment struct {
	ShortHash string  `parquet:"sha,snappy"`
	Date      string  `parquet:"date,snappy"`
	Author    string  `parquet:"author,snappy"`
	Message   string  `parquet:"message,snappy"`
	Compound  float64 `parquet:"compound,snappy"`
	Positive  float64 `parquet:"positive,snappy"`
	Neutral   float64 `parquet:"neutral,snappy"`
	Negative  float64 `parquet:"negative,snappy"`
	Sentiment string  `parquet:"sentiment,snappy,dict"`
}

// RepoSentiment is one repository line of a comparison.
type RepoSentiment struct {
	Repository      string  `parquet:"repository,snappy"`
	TotalCommits    int32   `parquet:"total_commits,snappy"`
	PositiveCount   int32   `parquet:"positive_count,snappy"`
	NeutralCount    int32   `parquet:"neutral_count,snappy"`
	NegativeCount   int32   `parquet:"negative_count,snappy"`
	PositivePercent float64 `parquet:"positive_percentage,snappy"`
	NeutralPercent  float64 `parquet:"neutral_percentage,snappy"`
	NegativePercent float64 `parquet:"negative_percentage,snappy"`
	AverageCompound float64 `parquet:"average_sentiment,snappy"`
	PosNegRatio     float64 `parquet:"pos_neg_ratio,snappy"`
	StdDev          float64 `parquet:"sentiment_std,snappy"`
	Min             float64 `parquet:"min_sentiment,snappy"`
	Max             float64 `parquet:"max_sentiment,snappy"`
}

// Run represents a single analysis run with metadata.
// This struct maps to the commitmood_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier for this run
	RunUUID string `parquet:"run_uuid,snappy"`

	// Repository is the analyzed repository in owner/repo form
	Repository string `parquet:"repository,snappy,dict"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalCommits  int32 `parquet:"total_commits,snappy"`
	PositiveCount int32 `parquet:"positive_count,snappy"`
	NeutralCount  int32 `parquet:"neutral_count,snappy"`
	NegativeCount int32 `parquet:"negative_count,snappy"`

	// AverageCompound is the mean compound score (nullable until the run ends)
	AverageCompound *float64 `parquet:"average_compound,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// CommitScore is a scored commit recorded by a run.
// This struct maps to the commitmood_commit_scores database table.
type CommitScore struct {
	RunID      int64   `parquet:"run_id,snappy"`
	Position   int32   `parquet:"position,snappy"`
	ShortHash  string  `parquet:"short_hash,snappy"`
	Author     string  `parquet:"author,snappy"`
	CommitDate string  `parquet:"commit_date,snappy"`
	Message    string  `parquet:"message,snappy"`
	Compound   float64 `parquet:"compound,snappy"`
	Positive   float64 `parquet:"positive,snappy"`
	Neutral    float64 `parquet:"neutral,snappy"`
	Negative   float64 `parquet:"negative,snappy"`
	Label      string  `parquet:"label,snappy,dict"`
}

// writeFile writes a slice of rows to a Parquet file, inferring the schema from T.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// The footer is only written on Close
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteCommitSentimentParquet writes scored commits to a Parquet file.
func WriteCommitSentimentParquet(data []CommitSentiment, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRepoSentimentParquet writes comparison lines to a Parquet file.
func WriteRepoSentimentParquet(data []RepoSentiment, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteCommitScoresParquet writes a slice of CommitScore structs to a Parquet file.
func WriteCommitScoresParquet(data []CommitScore, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertAnalysisRows converts analysis rows for Parquet export.
func ConvertAnalysisRows(rows []schema.AnalysisRow) []CommitSentiment {
	result := make([]CommitSentiment, len(rows))
	for i, row := range rows {
		result[i] = CommitSentiment{
			ShortHash: row.ShortHash,
			Date:      row.Timestamp,
			Author:    row.Author,
			Message:   row.Message,
			Compound:  row.Compound,
			Positive:  row.Positive,
			Neutral:   row.Neutral,
			Negative:  row.Negative,
			Sentiment: string(row.Label),
		}
	}
	return result
}

// ConvertRepoSummaries converts comparison summaries for Parquet export.
func ConvertRepoSummaries(summaries []schema.RepoSummary) []RepoSentiment {
	result := make([]RepoSentiment, len(summaries))
	for i, s := range summaries {
		result[i] = RepoSentiment{
			Repository:      s.Repo.FullName(),
			TotalCommits:    int32(s.Total),
			PositiveCount:   int32(s.PositiveCount),
			NeutralCount:    int32(s.NeutralCount),
			NegativeCount:   int32(s.NegativeCount),
			PositivePercent: s.PositivePercent,
			NeutralPercent:  s.NeutralPercent,
			NegativePercent: s.NegativePercent,
			AverageCompound: s.AverageCompound,
			PosNegRatio:     s.PNRatio,
			StdDev:          s.StdDev,
			Min:             s.Min,
			Max:             s.Max,
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:           record.RunID,
			RunUUID:         record.RunUUID,
			Repository:      record.Repository,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			TotalCommits:    record.TotalCommits,
			PositiveCount:   record.PositiveCount,
			NeutralCount:    record.NeutralCount,
			NegativeCount:   record.NegativeCount,
			AverageCompound: record.AverageCompound,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertCommitScoreRecords converts schema.CommitScoreRecord to CommitScore for Parquet export.
func ConvertCommitScoreRecords(records []schema.CommitScoreRecord) []CommitScore {
	result := make([]CommitScore, len(records))
	for i, record := range records {
		result[i] = CommitScore{
			RunID:      record.RunID,
			Position:   record.Position,
			ShortHash:  record.ShortHash,
			Author:     record.Author,
			CommitDate: record.CommitDate,
			Message:    record.Message,
			Compound:   record.Compound,
			Positive:   record.Positive,
			Neutral:    record.Neutral,
			Negative:   record.Negative,
			Label:      record.Label,
		}
	}
	return result
}
