package schema

import "time"

// RepoRef identifies a repository on the source-hosting service.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"repo"`
}

// FullName returns the "owner/repo" form.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// AnalysisOutput is everything produced by a single repository analysis.
type AnalysisOutput struct {
	Repo      RepoRef           `json:"repository"`
	Commits   []CommitRecord    `json:"-"`
	Rows      []AnalysisRow     `json:"rows"`
	Aggregate Aggregate         `json:"summary"`
	Report    *ValidationReport `json:"validation,omitempty"`
	FetchErr  error             `json:"-"` // Non-nil when the fetch stopped early
	Duration  time.Duration     `json:"-"`
}

// RepoSummary extends an aggregate with the spread statistics used when
// comparing repositories.
type RepoSummary struct {
	Repo RepoRef `json:"repository"`
	Aggregate
	PNRatio float64 `json:"pos_neg_ratio"` // Positive count over negative count, 0 without negatives
	StdDev  float64 `json:"sentiment_std"`
	Min     float64 `json:"min_sentiment"`
	Max     float64 `json:"max_sentiment"`
}

// ComparisonResult holds per-repository summaries and their overall averages.
type ComparisonResult struct {
	Summaries          []RepoSummary `json:"repositories"`
	Skipped            []RepoRef     `json:"skipped,omitempty"`
	AvgCompound        float64       `json:"average_sentiment"`
	AvgPositivePercent float64       `json:"average_positive_percentage"`
	AvgNeutralPercent  float64       `json:"average_neutral_percentage"`
	AvgNegativePercent float64       `json:"average_negative_percentage"`
}
