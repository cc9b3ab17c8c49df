package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/commitmood/internal/parquet"
)

// ExecuteHistoryExport exports the run history to Parquet files named after outputFile.
func ExecuteHistoryExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total commit scores: %d\n", status.TableSizes[commitScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllCommitScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve commit scores: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	scoresFile := outputFile + ".commit_scores.parquet"
	if err := parquet.WriteCommitScoresParquet(parquet.ConvertCommitScoreRecords(scores), scoresFile); err != nil {
		return fmt.Errorf("failed to write commit scores: %w", err)
	}
	fmt.Printf("Exported %d commit scores to: %s\n", len(scores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be loaded with DuckDB, Pandas or Spark.")
	return nil
}
