package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/parquet"
	"github.com/huangsam/commitmood/schema"
)

// PrintComparisonResults outputs a comparison, dispatching based on the output format configured.
func PrintComparisonResults(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForComparison(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteRepoSentimentParquet(parquet.ConvertRepoSummaries(result.Summaries), path)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(w, result, cfg, fmtFloat, fmtPercent, duration)
		}, "Wrote table")
	}
	return nil
}

// writeComparisonTable writes the ranked repositories followed by the overall averages.
func writeComparisonTable(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Repository", "Total", "Pos%", "Neu%", "Neg%", "Avg", "P/N", "Std", "Min", "Max"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var red, green, yellow func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}

	data := make([][]string, 0, len(result.Summaries))
	for i, s := range result.Summaries {
		var avgStr string
		switch {
		case s.AverageCompound > 0:
			avgStr = green(fmt.Sprintf("+%s ▲", fmtFloat(s.AverageCompound)))
		case s.AverageCompound < 0:
			avgStr = red(fmt.Sprintf("%s ▼", fmtFloat(s.AverageCompound)))
		default:
			avgStr = yellow(fmtFloat(0))
		}

		data = append(data, []string{
			strconv.Itoa(i + 1),
			s.Repo.FullName(),
			strconv.Itoa(s.Total),
			fmtPercent(s.PositivePercent),
			fmtPercent(s.NeutralPercent),
			fmtPercent(s.NegativePercent),
			avgStr,
			fmt.Sprintf("%.2f", s.PNRatio),
			fmtFloat(s.StdDev),
			fmtFloat(s.Min),
			fmtFloat(s.Max),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := io.WriteString(w, formatAverages(result, fmtFloat, fmtPercent)); err != nil {
		return err
	}
	for _, repo := range result.Skipped {
		if _, err := fmt.Fprintf(w, "⚠️  Skipped %s: no commits analyzed\n", repo.FullName()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Compared %d repositories in %v. Cache backend: %s\n",
		len(result.Summaries), duration.Round(time.Millisecond), cacheLabel(cfg))
	return err
}

// formatAverages renders the cross-repository averages.
func formatAverages(result schema.ComparisonResult, fmtFloat, fmtPercent func(float64) string) string {
	return fmt.Sprintf("\nSTATISTICAL SUMMARY\n"+
		"Average Positive: %s\n"+
		"Average Neutral:  %s\n"+
		"Average Negative: %s\n"+
		"Average Compound Score: %s\n",
		fmtPercent(result.AvgPositivePercent),
		fmtPercent(result.AvgNeutralPercent),
		fmtPercent(result.AvgNegativePercent),
		fmtFloat(result.AvgCompound),
	)
}
