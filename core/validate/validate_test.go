package validate

import (
	"testing"
	"time"

	"github.com/huangsam/commitmood/core/agg"
	"github.com/huangsam/commitmood/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() ([]schema.CommitRecord, []schema.AnalysisRow) {
	commits := []schema.CommitRecord{
		{ShortHash: "a1b2c3d", Message: "Added amazing new feature", Timestamp: "2024-01-01T10:00:00Z", Author: "Ann"},
		{ShortHash: "b2c3d4e", Message: "Update documentation", Timestamp: "2024-01-02T10:00:00Z", Author: "Bob"},
		{ShortHash: "c3d4e5f", Message: "This is terrible", Timestamp: "2024-01-03T10:00:00Z", Author: "Cy"},
	}
	scores := []schema.ScoreResult{
		{Compound: 0.62, Positive: 0.6, Neutral: 0.4, Label: schema.PositiveLabel},
		{Compound: 0, Neutral: 1, Label: schema.NeutralLabel},
		{Compound: -0.48, Negative: 0.5, Neutral: 0.5, Label: schema.NegativeLabel},
	}
	rows := make([]schema.AnalysisRow, len(commits))
	for i := range commits {
		rows[i] = schema.AnalysisRow{CommitRecord: commits[i], ScoreResult: scores[i]}
	}
	return commits, rows
}

func checks(report schema.ValidationReport) []schema.CheckName {
	var out []schema.CheckName
	for _, d := range report.Discrepancies {
		out = append(out, d.Check)
	}
	return out
}

func TestValidateConsistent(t *testing.T) {
	commits, rows := fixture()
	report := Validate(commits, rows, agg.Aggregate(rows))

	assert.True(t, report.Valid)
	assert.Empty(t, report.Discrepancies)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), report.Stats.Earliest)
	assert.Equal(t, time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC), report.Stats.Latest)
	assert.Equal(t, -0.48, report.Stats.Min)
	assert.Equal(t, 0.62, report.Stats.Max)
}

func TestValidateEmpty(t *testing.T) {
	report := Validate(nil, nil, agg.Aggregate(nil))
	assert.True(t, report.Valid)
	assert.True(t, report.Stats.Earliest.IsZero())
}

func TestValidateDiscrepancies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(commits []schema.CommitRecord, rows []schema.AnalysisRow, a *schema.Aggregate) []schema.CommitRecord
		want   schema.CheckName
	}{
		{
			name: "row count",
			mutate: func(commits []schema.CommitRecord, _ []schema.AnalysisRow, _ *schema.Aggregate) []schema.CommitRecord {
				return append(commits, schema.CommitRecord{ShortHash: "d4e5f6a"})
			},
			want: schema.RowCountCheck,
		},
		{
			name: "compound out of range",
			mutate: func(commits []schema.CommitRecord, rows []schema.AnalysisRow, _ *schema.Aggregate) []schema.CommitRecord {
				rows[1].Compound = 1.5
				rows[1].Label = schema.PositiveLabel
				return commits
			},
			want: schema.RangeCheck,
		},
		{
			name: "proportions do not sum to one",
			mutate: func(commits []schema.CommitRecord, rows []schema.AnalysisRow, _ *schema.Aggregate) []schema.CommitRecord {
				rows[1].Neutral = 0.5
				return commits
			},
			want: schema.SumCheck,
		},
		{
			name: "label inconsistent with compound",
			mutate: func(commits []schema.CommitRecord, rows []schema.AnalysisRow, _ *schema.Aggregate) []schema.CommitRecord {
				rows[0].Compound = 0.01
				return commits
			},
			want: schema.LabelCheck,
		},
		{
			name: "unknown label",
			mutate: func(commits []schema.CommitRecord, rows []schema.AnalysisRow, _ *schema.Aggregate) []schema.CommitRecord {
				rows[1].Label = "mixed"
				return commits
			},
			want: schema.LabelCheck,
		},
		{
			name: "average drifted",
			mutate: func(commits []schema.CommitRecord, _ []schema.AnalysisRow, a *schema.Aggregate) []schema.CommitRecord {
				a.AverageCompound += 0.001
				return commits
			},
			want: schema.AggregateCheck,
		},
		{
			name: "count drifted",
			mutate: func(commits []schema.CommitRecord, _ []schema.AnalysisRow, a *schema.Aggregate) []schema.CommitRecord {
				a.PositiveCount++
				return commits
			},
			want: schema.TotalsCheck,
		},
		{
			name: "missing author",
			mutate: func(commits []schema.CommitRecord, rows []schema.AnalysisRow, _ *schema.Aggregate) []schema.CommitRecord {
				rows[2].Author = ""
				return commits
			},
			want: schema.RequiredFieldCheck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits, rows := fixture()
			aggregate := agg.Aggregate(rows)
			commits = tt.mutate(commits, rows, &aggregate)

			report := Validate(commits, rows, aggregate)
			assert.False(t, report.Valid)
			assert.Contains(t, checks(report), tt.want)
			for _, d := range report.Discrepancies {
				assert.NotEmpty(t, d.Message)
			}
		})
	}
}

func TestValidateWarningsDoNotInvalidate(t *testing.T) {
	commits, rows := fixture()
	rows[0].Message = "  "
	rows[1].ShortHash = "abc"
	rows[2].Timestamp = "last tuesday"
	commits[0].Message = "  "

	report := Validate(commits, rows, agg.Aggregate(rows))
	assert.True(t, report.Valid)
	require.Len(t, report.Warnings, 3)
	assert.Contains(t, report.Warnings[0], "empty commit message")
	assert.Contains(t, report.Warnings[1], "non-standard SHA")
	assert.Contains(t, report.Warnings[2], "unparseable timestamp")
}

func TestValidateDoesNotMutate(t *testing.T) {
	commits, rows := fixture()
	aggregate := agg.Aggregate(rows)
	aggregate.AverageCompound = 0.9

	before := append([]schema.AnalysisRow(nil), rows...)
	_ = Validate(commits, rows, aggregate)
	assert.Equal(t, before, rows)
	assert.Equal(t, 0.9, aggregate.AverageCompound)
}
