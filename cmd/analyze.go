package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/commitmood/core"
	"github.com/huangsam/commitmood/internal/contract"
)

// analyzeCmd scores the commits of a single repository.
var analyzeCmd = &cobra.Command{
	Use:   "analyze owner/repo | owner repo",
	Short: "Score the sentiment of recent commits in a repository.",
	Long: `Fetch recent commits of a GitHub repository and score each message with VADER.

Prints a summary of positive, neutral and negative commits, a table of the
latest scored commits, and renders two charts:
- A timeline of compound scores with a moving average and daily counts
- A pie chart of the label distribution

Examples:
  # Analyze the last 200 commits
  commitmood analyze golang/go

  # Owner and repository as separate arguments
  commitmood analyze golang go --limit 500

  # Check the results for internal consistency
  commitmood analyze golang/go --validate

  # Export scored commits to CSV without charts
  commitmood analyze golang/go --no-chart --output csv --output-file commits.csv

  # Score a local clone, labelled with its upstream name
  commitmood analyze golang/go --local-path ~/src/go`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args, false)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
