// Package agg turns fetched commits into scored rows and summary aggregates.
package agg

import (
	"github.com/huangsam/commitmood/core/algo"
	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

// ScoreCommits scores every commit message in input order.
// Duplicates pass through and no commit is dropped.
func ScoreCommits(scorer contract.SentimentScorer, commits []schema.CommitRecord) []schema.AnalysisRow {
	rows := make([]schema.AnalysisRow, 0, len(commits))
	for _, commit := range commits {
		rows = append(rows, schema.AnalysisRow{
			CommitRecord: commit,
			ScoreResult:  scorer.Score(commit.Message),
		})
	}
	return rows
}

// Aggregate counts labels and averages compound scores over rows.
// Percentages and the average are 0 for an empty table.
func Aggregate(rows []schema.AnalysisRow) schema.Aggregate {
	out := schema.Aggregate{Total: len(rows)}
	compounds := make([]float64, 0, len(rows))
	for _, row := range rows {
		switch row.Label {
		case schema.PositiveLabel:
			out.PositiveCount++
		case schema.NegativeLabel:
			out.NegativeCount++
		case schema.NeutralLabel:
			out.NeutralCount++
		}
		compounds = append(compounds, row.Compound)
	}

	out.PositivePercent = algo.Percent(out.PositiveCount, out.Total)
	out.NeutralPercent = algo.Percent(out.NeutralCount, out.Total)
	out.NegativePercent = algo.Percent(out.NegativeCount, out.Total)
	out.AverageCompound = algo.Mean(compounds)
	return out
}

// Run scores commits and aggregates the result.
func Run(scorer contract.SentimentScorer, commits []schema.CommitRecord) ([]schema.AnalysisRow, schema.Aggregate) {
	rows := ScoreCommits(scorer, commits)
	return rows, Aggregate(rows)
}

// Summarize extends the aggregate of rows with the spread statistics used
// when comparing repositories.
func Summarize(repo schema.RepoRef, rows []schema.AnalysisRow) schema.RepoSummary {
	aggregate := Aggregate(rows)
	compounds := Compounds(rows)
	lo, hi := algo.MinMax(compounds)

	summary := schema.RepoSummary{
		Repo:      repo,
		Aggregate: aggregate,
		StdDev:    algo.StdDev(compounds),
		Min:       lo,
		Max:       hi,
	}
	if aggregate.NegativeCount > 0 {
		summary.PNRatio = float64(aggregate.PositiveCount) / float64(aggregate.NegativeCount)
	}
	return summary
}

// Compare ranks summaries and averages them across repositories.
func Compare(summaries []schema.RepoSummary, skipped []schema.RepoRef) schema.ComparisonResult {
	result := schema.ComparisonResult{
		Summaries: algo.RankSummaries(summaries),
		Skipped:   skipped,
	}
	if len(summaries) == 0 {
		return result
	}

	avgs := make([]float64, 0, len(summaries))
	pos := make([]float64, 0, len(summaries))
	neu := make([]float64, 0, len(summaries))
	neg := make([]float64, 0, len(summaries))
	for _, s := range summaries {
		avgs = append(avgs, s.AverageCompound)
		pos = append(pos, s.PositivePercent)
		neu = append(neu, s.NeutralPercent)
		neg = append(neg, s.NegativePercent)
	}
	result.AvgCompound = algo.Mean(avgs)
	result.AvgPositivePercent = algo.Mean(pos)
	result.AvgNeutralPercent = algo.Mean(neu)
	result.AvgNegativePercent = algo.Mean(neg)
	return result
}

// Compounds extracts the compound score of each row.
func Compounds(rows []schema.AnalysisRow) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row.Compound
	}
	return out
}
