// Package validate checks scored rows and their aggregate for internal consistency.
package validate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/commitmood/core/agg"
	"github.com/huangsam/commitmood/core/algo"
	"github.com/huangsam/commitmood/core/sentiment"
	"github.com/huangsam/commitmood/schema"
)

// Tolerances used by the checks.
const (
	sumTolerance        = 0.01
	derivationTolerance = 1e-9
	percentTolerance    = 0.1
	shortHashLen        = 7
)

// Validate runs every check against rows and aggregate. It never modifies
// its inputs and never fails; problems are reported as discrepancies.
func Validate(commits []schema.CommitRecord, rows []schema.AnalysisRow, aggregate schema.Aggregate) schema.ValidationReport {
	v := &validator{}

	v.checkRowCount(len(commits), len(rows))
	for i, row := range rows {
		v.checkRanges(i, row.ScoreResult)
		v.checkSum(i, row.ScoreResult)
		v.checkLabel(i, row.ScoreResult)
		v.checkRequiredFields(i, row.CommitRecord)
		v.collectWarnings(i, row.CommitRecord)
	}
	v.checkDerivation(rows, aggregate)
	v.checkTotals(aggregate)

	return schema.ValidationReport{
		Valid:         len(v.discrepancies) == 0,
		Discrepancies: v.discrepancies,
		Warnings:      v.warnings,
		Stats:         Stats(rows),
	}
}

// Stats describes the date range and compound score distribution of rows.
func Stats(rows []schema.AnalysisRow) schema.ScoreStats {
	var stats schema.ScoreStats
	compounds := agg.Compounds(rows)
	stats.Min, stats.Max = algo.MinMax(compounds)
	stats.Mean = algo.Mean(compounds)
	stats.StdDev = algo.StdDev(compounds)

	for _, row := range rows {
		ts, err := schema.ParseCommitTime(row.Timestamp)
		if err != nil {
			continue
		}
		if stats.Earliest.IsZero() || ts.Before(stats.Earliest) {
			stats.Earliest = ts
		}
		if stats.Latest.IsZero() || ts.After(stats.Latest) {
			stats.Latest = ts
		}
	}
	return stats
}

type validator struct {
	discrepancies []schema.Discrepancy
	warnings      []string
}

func (v *validator) fail(check schema.CheckName, row int, format string, args ...any) {
	v.discrepancies = append(v.discrepancies, schema.Discrepancy{
		Check:   check,
		Row:     row,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) warn(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) checkRowCount(commits, rows int) {
	if commits != rows {
		v.fail(schema.RowCountCheck, -1, "commit count mismatch (%d commits vs %d rows)", commits, rows)
	}
}

func (v *validator) checkRanges(i int, s schema.ScoreResult) {
	if s.Compound < -1 || s.Compound > 1 || math.IsNaN(s.Compound) {
		v.fail(schema.RangeCheck, i, "compound score %v outside [-1, 1]", s.Compound)
	}
	for _, part := range []struct {
		name  string
		value float64
	}{
		{"positive", s.Positive},
		{"neutral", s.Neutral},
		{"negative", s.Negative},
	} {
		if part.value < 0 || part.value > 1 || math.IsNaN(part.value) {
			v.fail(schema.RangeCheck, i, "%s score %v outside [0, 1]", part.name, part.value)
		}
	}
}

func (v *validator) checkSum(i int, s schema.ScoreResult) {
	sum := s.Positive + s.Neutral + s.Negative
	if math.Abs(sum-1) > sumTolerance {
		v.fail(schema.SumCheck, i, "pos+neu+neg = %.4f, expected 1.0", sum)
	}
}

func (v *validator) checkLabel(i int, s schema.ScoreResult) {
	if _, ok := schema.ValidLabels[s.Label]; !ok {
		v.fail(schema.LabelCheck, i, "invalid sentiment value %q", s.Label)
		return
	}
	if want := sentiment.LabelFor(s.Compound); want != s.Label {
		v.fail(schema.LabelCheck, i, "compound=%.3f classified as %q, expected %q", s.Compound, s.Label, want)
	}
}

func (v *validator) checkRequiredFields(i int, c schema.CommitRecord) {
	var missing []string
	if strings.TrimSpace(c.ShortHash) == "" {
		missing = append(missing, "sha")
	}
	if strings.TrimSpace(c.Timestamp) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(c.Author) == "" {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		v.fail(schema.RequiredFieldCheck, i, "missing required fields: %s", strings.Join(missing, ", "))
	}
}

func (v *validator) collectWarnings(i int, c schema.CommitRecord) {
	if strings.TrimSpace(c.Message) == "" {
		v.warn("row %d (%s): empty commit message", i, c.ShortHash)
	}
	if c.ShortHash != "" && len(c.ShortHash) != shortHashLen {
		v.warn("row %d (%s): non-standard SHA length %d", i, c.ShortHash, len(c.ShortHash))
	}
	if c.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, c.Timestamp); err != nil {
			v.warn("row %d (%s): unparseable timestamp %q", i, c.ShortHash, c.Timestamp)
		}
	}
}

// checkDerivation recomputes the aggregate from rows and compares each field.
func (v *validator) checkDerivation(rows []schema.AnalysisRow, got schema.Aggregate) {
	want := agg.Aggregate(rows)

	if got.Total != want.Total {
		v.fail(schema.AggregateCheck, -1, "total_commits %d doesn't match row count %d", got.Total, want.Total)
	}
	for _, label := range schema.AllLabels {
		if got.CountFor(label) != want.CountFor(label) {
			v.fail(schema.AggregateCheck, -1, "%s count mismatch (%d vs %d)", label, got.CountFor(label), want.CountFor(label))
		}
		if math.Abs(got.PercentFor(label)-want.PercentFor(label)) > derivationTolerance {
			v.fail(schema.AggregateCheck, -1, "%s percentage mismatch (%.6f vs %.6f)", label, got.PercentFor(label), want.PercentFor(label))
		}
	}
	if math.Abs(got.AverageCompound-want.AverageCompound) > derivationTolerance {
		v.fail(schema.AggregateCheck, -1, "average compound mismatch (%.6f vs %.6f)", got.AverageCompound, want.AverageCompound)
	}
}

// checkTotals checks the aggregate against itself.
func (v *validator) checkTotals(a schema.Aggregate) {
	counted := a.PositiveCount + a.NeutralCount + a.NegativeCount
	if counted != a.Total {
		v.fail(schema.TotalsCheck, -1, "sentiment counts don't add up to total (%d != %d)", counted, a.Total)
	}
	if a.Total == 0 {
		return
	}
	sum := a.PositivePercent + a.NeutralPercent + a.NegativePercent
	if math.Abs(sum-100) > percentTolerance {
		v.fail(schema.TotalsCheck, -1, "percentages don't add up to 100%% (sum = %.1f%%)", sum)
	}
}
