package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

// writeCSVResultsForComparison writes one CSV line per compared repository.
func writeCSVResultsForComparison(w io.Writer, result schema.ComparisonResult, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"repository",
		"total_commits",
		"positive_count",
		"neutral_count",
		"negative_count",
		"positive_percentage",
		"neutral_percentage",
		"negative_percentage",
		"average_compound",
		"pn_ratio",
		"std_dev",
		"min_score",
		"max_score",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, s := range result.Summaries {
			row := []string{
				strconv.Itoa(i + 1),
				s.Repo.FullName(),
				strconv.Itoa(s.Total),
				strconv.Itoa(s.PositiveCount),
				strconv.Itoa(s.NeutralCount),
				strconv.Itoa(s.NegativeCount),
				fmt.Sprintf("%.1f", s.PositivePercent),
				fmt.Sprintf("%.1f", s.NeutralPercent),
				fmt.Sprintf("%.1f", s.NegativePercent),
				fmtFloat(s.AverageCompound),
				fmt.Sprintf("%.2f", s.PNRatio),
				fmtFloat(s.StdDev),
				fmtFloat(s.Min),
				fmtFloat(s.Max),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteComparisonReport writes the plain-text comparison report to path.
func WriteComparisonReport(result schema.ComparisonResult, cfg *contract.Config, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = file.Close() }()

	fmtFloat, fmtPercent := createFormatters(cfg.Precision)
	if err := writeComparisonReport(file, result, fmtFloat, fmtPercent); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote report to %s\n", path)
	return nil
}

func writeComparisonReport(w io.Writer, result schema.ComparisonResult, fmtFloat, fmtPercent func(float64) string) error {
	rule := strings.Repeat("=", 70)
	sep := strings.Repeat("-", 70)

	var b strings.Builder
	fmt.Fprintf(&b, "MULTI-REPOSITORY SENTIMENT ANALYSIS\n%s\n\n", rule)
	for _, s := range result.Summaries {
		fmt.Fprintf(&b, "Repository: %s\n", s.Repo.FullName())
		fmt.Fprintf(&b, "Total Commits: %d\n", s.Total)
		for _, label := range schema.AllLabels {
			fmt.Fprintf(&b, "%-9s %d (%s)\n", contract.GetPlainLabel(label)+":", s.CountFor(label), fmtPercent(s.PercentFor(label)))
		}
		fmt.Fprintf(&b, "Average Score: %s\n", fmtFloat(s.AverageCompound))
		fmt.Fprintf(&b, "P/N Ratio: %.2f\n", s.PNRatio)
		fmt.Fprintf(&b, "%s\n\n", sep)
	}

	if len(result.Summaries) > 1 {
		fmt.Fprintf(&b, "COMPARATIVE SUMMARY\n%s\n", rule)
		fmt.Fprintf(&b, "Average Positive: %s\n", fmtPercent(result.AvgPositivePercent))
		fmt.Fprintf(&b, "Average Neutral:  %s\n", fmtPercent(result.AvgNeutralPercent))
		fmt.Fprintf(&b, "Average Negative: %s\n", fmtPercent(result.AvgNegativePercent))
		fmt.Fprintf(&b, "Average Compound Score: %s\n", fmtFloat(result.AvgCompound))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
