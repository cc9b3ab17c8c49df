package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/commitmood/core"
	"github.com/huangsam/commitmood/internal/contract"
)

// compareCmd ranks several repositories by commit sentiment.
var compareCmd = &cobra.Command{
	Use:   "compare owner/repo [owner/repo...]",
	Short: "Compare commit sentiment across repositories.",
	Long: `Analyze several GitHub repositories one after another and rank them by
average compound score.

For each repository the comparison shows:
- Label counts and percentages
- Average, spread, minimum and maximum compound score
- The ratio of positive to negative commits

Repositories without commits are skipped with a warning.

Examples:
  # Compare two repositories
  commitmood compare golang/go rust-lang/rust

  # Write a plain-text report next to the table
  commitmood compare golang/go rust-lang/rust --report-file report.txt

  # Export the summaries as JSON
  commitmood compare golang/go rust-lang/rust --output json --output-file compare.json`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, args, true)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
