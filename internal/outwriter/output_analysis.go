package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/commitmood/core/algo"
	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/internal/parquet"
	"github.com/huangsam/commitmood/schema"
)

// Row limits for the text table of latest commits.
const (
	defaultTableRows = 15
	maxTableRows     = 50
)

// summaryRule frames the summary block.
var summaryRule = strings.Repeat("=", 60)

// WriteAnalysisResults outputs a repository analysis, dispatching based on the output format configured.
func WriteAnalysisResults(output schema.AnalysisOutput, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, output)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRows(w, output.Rows, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetFile(cfg.OutputFile, func(path string) error {
			return parquet.WriteCommitSentimentParquet(parquet.ConvertAnalysisRows(output.Rows), path)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable summary and table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisText(w, output, cfg, fmtFloat, fmtPercent, duration)
		}, "Wrote table")
	}
	return nil
}

// writeAnalysisText writes the summary block, the latest commits and the validation report.
func writeAnalysisText(w io.Writer, output schema.AnalysisOutput, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string, duration time.Duration) error {
	if err := writeSummary(w, output.Repo, output.Aggregate, fmtFloat, fmtPercent); err != nil {
		return err
	}

	latest := algo.LatestRows(output.Rows, GetMaxTableRows())
	if err := writeRowsTable(w, latest, cfg, fmtFloat); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing latest %d of %d commits\n", len(latest), len(output.Rows)); err != nil {
		return err
	}

	if output.Report != nil {
		if err := writeValidationReport(w, *output.Report, fmtFloat); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cacheLabel(cfg))
	return err
}

// writeSummary writes the per-label breakdown and average sentiment of a repository.
func writeSummary(w io.Writer, repo schema.RepoRef, agg schema.Aggregate, fmtFloat, fmtPercent func(float64) string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nSENTIMENT ANALYSIS SUMMARY: %s\n%s\n", summaryRule, repo.FullName(), summaryRule)
	fmt.Fprintf(&b, "Total Commits Analyzed: %d\n\nSentiment Breakdown:\n", agg.Total)
	for _, label := range schema.AllLabels {
		fmt.Fprintf(&b, "  %-9s %d (%s)\n", contract.GetPlainLabel(label)+":", agg.CountFor(label), fmtPercent(agg.PercentFor(label)))
	}
	fmt.Fprintf(&b, "\nAverage Sentiment Score: %s\n", fmtFloat(agg.AverageCompound))
	fmt.Fprintf(&b, "  (Range: -1.0 to +1.0, where 0 is neutral)\n%s\n\n", summaryRule)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeRowsTable renders scored commits as a table, newest first.
func writeRowsTable(w io.Writer, rows []schema.AnalysisRow, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Date", "SHA", "Author", "Message", "Compound", "Sentiment"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignRight}
	})

	label := labelFormatter(cfg)
	width := GetMaxMessageWidth(cfg)

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		day := r.Timestamp
		if ts, err := schema.ParseCommitTime(r.Timestamp); err == nil {
			day = ts.UTC().Format(time.DateOnly)
		}
		data = append(data, []string{
			day,
			r.ShortHash,
			schema.AbbreviateName(r.Author),
			schema.Subject(r.Message, width),
			fmtFloat(r.Compound),
			label(r.Label),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForRows writes scored commits in CSV format.
func writeCSVResultsForRows(w io.Writer, rows []schema.AnalysisRow, fmtFloat func(float64) string) error {
	header := []string{"sha", "date", "author", "message", "compound", "positive", "neutral", "negative", "sentiment"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.ShortHash,
				r.Timestamp,
				r.Author,
				r.Message,
				fmtFloat(r.Compound),
				fmtFloat(r.Positive),
				fmtFloat(r.Neutral),
				fmtFloat(r.Negative),
				string(r.Label),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// cacheLabel names the cache backend for the footer line.
func cacheLabel(cfg *contract.Config) string {
	if cfg.CacheBackend == "" {
		return "disabled"
	}
	return string(cfg.CacheBackend)
}
