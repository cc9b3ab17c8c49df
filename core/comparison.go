package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/commitmood/core/agg"
	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

// errNoRepos is returned when a command runs without any repository.
var errNoRepos = errors.New("no repositories to analyze")

// runComparison analyzes repositories one after another and compares their
// summaries. Repositories without commits are skipped. A cancelled context
// stops the loop and compares what was analyzed so far.
func runComparison(ctx context.Context, cfg *contract.Config, source contract.CommitSource, scorer contract.SentimentScorer, mgr contract.CacheManager) (schema.ComparisonResult, error) {
	if len(cfg.Repos) == 0 {
		return schema.ComparisonResult{}, errNoRepos
	}

	summaries := make([]schema.RepoSummary, 0, len(cfg.Repos))
	var skipped []schema.RepoRef

	for i, repo := range cfg.Repos {
		if ctx.Err() != nil {
			skipped = append(skipped, cfg.Repos[i:]...)
			contract.LogWarn("Comparison interrupted", ctx.Err())
			break
		}

		output, err := runSingleAnalysis(ctx, cfg, source, scorer, mgr, repo)
		if err != nil {
			return schema.ComparisonResult{}, fmt.Errorf("analysis of %s failed: %w", repo.FullName(), err)
		}
		if len(output.Rows) == 0 {
			contract.LogWarn("Skipping repository", fmt.Errorf("no commits found for %s", repo.FullName()))
			skipped = append(skipped, repo)
			continue
		}
		summaries = append(summaries, agg.Summarize(repo, output.Rows))
	}

	return agg.Compare(summaries, skipped), nil
}
