package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/huangsam/commitmood/core/agg"
	"github.com/huangsam/commitmood/core/validate"
	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/ghsource"
	"github.com/huangsam/commitmood/internal/logging"
	"github.com/huangsam/commitmood/schema"
)

// runSingleAnalysis performs the fetch, scoring, aggregation and validation
// steps for one repository, recording the run when history is configured.
// A failed fetch is not fatal: the rows fetched so far are analyzed and the
// error is kept on the output. Malformed responses abort the analysis.
func runSingleAnalysis(ctx context.Context, cfg *contract.Config, source contract.CommitSource, scorer contract.SentimentScorer, mgr contract.CacheManager, repo schema.RepoRef) (*schema.AnalysisOutput, error) {
	start := time.Now()
	logger := logging.From(ctx).With(slog.String("repo", repo.FullName()))

	if showProgress(ctx, cfg) {
		fmt.Printf("🔎 Fetching up to %d commits from %s...\n", cfg.Limit, repo.FullName())
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	if history != nil {
		runID, err := history.BeginRun(start, repo.FullName(), runParams(cfg))
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	// --- 1. Fetch Phase (with caching) ---
	commits, fetchErr := CachedFetch(ctx, cfg, source, mgr, repo)
	if fetchErr != nil {
		if errors.Is(fetchErr, ghsource.ErrMalformedCommit) {
			// Close the run so the history never holds an open entry
			if runID, ok := getRunID(ctx); ok && history != nil {
				if err := history.EndRun(runID, time.Now(), schema.Aggregate{}); err != nil {
					contract.LogWarn("Failed to finalize run tracking", err)
				}
			}
			return nil, fetchErr
		}
		contract.LogWarn(fmt.Sprintf("Fetch for %s stopped after %d commits", repo.FullName(), len(commits)), fetchErr)
	}
	logger.Debug("fetched commits", slog.Int("commits", len(commits)))

	// --- 2. Scoring and Aggregation ---
	rows, aggregate := agg.Run(scorer, commits)

	output := &schema.AnalysisOutput{
		Repo:      repo,
		Commits:   commits,
		Rows:      rows,
		Aggregate: aggregate,
		FetchErr:  fetchErr,
	}

	// --- 3. Validation ---
	if cfg.Validate {
		report := validate.Validate(commits, rows, aggregate)
		output.Report = &report
		if !report.Valid {
			logger.Warn("validation found discrepancies", slog.Int("count", len(report.Discrepancies)))
		}
	}

	// --- 4. End Run Tracking ---
	if runID, ok := getRunID(ctx); ok && history != nil {
		if err := history.RecordRows(runID, rows); err != nil {
			contract.LogWarn("Failed to record scored commits", err)
		}
		if err := history.EndRun(runID, time.Now(), aggregate); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	output.Duration = time.Since(start)
	if showProgress(ctx, cfg) {
		fmt.Printf("📊 Analyzed %d commits from %s\n", aggregate.Total, repo.FullName())
	}
	return output, nil
}

// runParams lists the settings stored with each history run.
func runParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"limit":         cfg.Limit,
		"page_size":     cfg.PageSize,
		"validate":      cfg.Validate,
		"cache_backend": string(cfg.CacheBackend),
	}
}

// showProgress reports whether progress lines may be written to stdout.
// Machine-readable output on stdout must not be mixed with them.
func showProgress(ctx context.Context, cfg *contract.Config) bool {
	if shouldSuppressHeader(ctx) {
		return false
	}
	return cfg.Output == schema.TextOut || cfg.Output == "" || cfg.OutputFile != ""
}
