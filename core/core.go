// Package core has core logic for fetching, scoring and comparing commit sentiment.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/commitmood/core/sentiment"
	"github.com/huangsam/commitmood/internal/chart"
	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/ghsource"
	"github.com/huangsam/commitmood/internal/gitsource"
	"github.com/huangsam/commitmood/internal/outwriter"
	"github.com/huangsam/commitmood/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteAnalyze runs the single repository analysis, renders charts and prints results.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	source, err := newAnalyzeSource(cfg)
	if err != nil {
		return err
	}
	output, err := GetAnalyzeResults(ctx, cfg, source, mgr)
	if err != nil {
		return err
	}
	if len(output.Rows) == 0 {
		fmt.Println("No commits found")
		return nil
	}
	if !cfg.NoChart {
		renderCharts(output, cfg)
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteAnalysis(*output, cfg, duration)
}

// GetAnalyzeResults analyzes the first configured repository and returns the output
// without printing it.
func GetAnalyzeResults(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager) (*schema.AnalysisOutput, error) {
	if len(cfg.Repos) == 0 {
		return nil, errNoRepos
	}
	return runSingleAnalysis(ctx, cfg, source, sentiment.NewScorer(), mgr, cfg.Repos[0])
}

// newAnalyzeSource reads from the local clone when one is configured.
func newAnalyzeSource(cfg *contract.Config) (contract.CommitSource, error) {
	if cfg.LocalPath != "" {
		return gitsource.New(cfg.LocalPath)
	}
	return ghsource.NewFromConfig(cfg)
}

// ExecuteCompare analyzes every configured repository and prints the comparison.
// It serves as the main entry point for the 'compare' command.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	source, err := ghsource.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	result, err := GetCompareResults(ctx, cfg, source, mgr)
	if err != nil {
		return err
	}
	if len(result.Summaries) == 0 {
		fmt.Println("No commits found")
		return nil
	}

	ow := outwriter.NewOutWriter()
	duration := time.Since(start)
	if err := ow.WriteComparison(result, cfg, duration); err != nil {
		return err
	}
	if cfg.ReportFile != "" {
		return ow.WriteReport(result, cfg, cfg.ReportFile)
	}
	return nil
}

// GetCompareResults compares all configured repositories without printing.
func GetCompareResults(ctx context.Context, cfg *contract.Config, source contract.CommitSource, mgr contract.CacheManager) (schema.ComparisonResult, error) {
	return runComparison(ctx, cfg, source, sentiment.NewScorer(), mgr)
}

// renderCharts writes the timeline and distribution charts. Chart failures
// are reported but do not fail the command.
func renderCharts(output *schema.AnalysisOutput, cfg *contract.Config) {
	if err := chart.RenderTimeline(output.Rows, cfg.ChartFile); err != nil {
		if !errors.Is(err, chart.ErrNoData) {
			contract.LogWarn("Cannot render timeline chart", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "📈 Saved timeline chart to %s\n", cfg.ChartFile)
	}

	distPath := cfg.DistributionChartPath()
	if err := chart.RenderDistribution(output.Aggregate, distPath); err != nil {
		if !errors.Is(err, chart.ErrNoData) {
			contract.LogWarn("Cannot render distribution chart", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "📈 Saved distribution chart to %s\n", distPath)
	}
}
