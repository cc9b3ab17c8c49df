// Package algo has pure numeric helpers over scored commits.
package algo

import (
	"sort"

	"github.com/huangsam/commitmood/schema"
)

// RankSummaries sorts repository summaries by average compound score in
// descending order. Ties keep their input order.
func RankSummaries(summaries []schema.RepoSummary) []schema.RepoSummary {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].AverageCompound > summaries[j].AverageCompound
	})
	return summaries
}

// SortRowsByTime returns a copy of rows ordered from oldest to newest.
// Rows with unparseable timestamps sort first, in input order.
func SortRowsByTime(rows []schema.AnalysisRow) []schema.AnalysisRow {
	sorted := make([]schema.AnalysisRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := schema.ParseCommitTime(sorted[i].Timestamp)
		tj, _ := schema.ParseCommitTime(sorted[j].Timestamp)
		return ti.Before(tj)
	})
	return sorted
}

// LatestRows returns up to limit rows ordered from newest to oldest.
func LatestRows(rows []schema.AnalysisRow, limit int) []schema.AnalysisRow {
	sorted := SortRowsByTime(rows)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	if limit >= 0 && len(sorted) > limit {
		return sorted[:limit]
	}
	return sorted
}
