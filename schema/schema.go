// Package schema has models and enums shared by all parts of commitmood.
package schema

// CommitRecord is one normalized entry from a commit listing page.
type CommitRecord struct {
	ShortHash string `json:"sha"`     // First 7 characters of the commit SHA
	Message   string `json:"message"` // Full commit message, not just the subject line
	Timestamp string `json:"date"`    // Author date in RFC 3339 form
	Author    string `json:"author"`  // Author display name
}

// ScoreResult holds the polarity scores of a text plus its derived label.
type ScoreResult struct {
	Compound float64 `json:"compound"` // Normalized overall polarity in [-1, 1]
	Positive float64 `json:"positive"` // Share of positive sentiment in [0, 1]
	Neutral  float64 `json:"neutral"`  // Share of neutral sentiment in [0, 1]
	Negative float64 `json:"negative"` // Share of negative sentiment in [0, 1]
	Label    Label   `json:"sentiment"`
}

// AnalysisRow is a commit joined with the score of its message.
type AnalysisRow struct {
	CommitRecord
	ScoreResult
}

// Aggregate summarizes a table of rows. It is always recomputed from scratch.
type Aggregate struct {
	Total           int     `json:"total_commits"`
	PositiveCount   int     `json:"positive_count"`
	NeutralCount    int     `json:"neutral_count"`
	NegativeCount   int     `json:"negative_count"`
	PositivePercent float64 `json:"positive_percentage"`
	NeutralPercent  float64 `json:"neutral_percentage"`
	NegativePercent float64 `json:"negative_percentage"`
	AverageCompound float64 `json:"average_sentiment"`
}

// CountFor returns the count of rows carrying the given label.
func (a Aggregate) CountFor(label Label) int {
	switch label {
	case PositiveLabel:
		return a.PositiveCount
	case NegativeLabel:
		return a.NegativeCount
	default:
		return a.NeutralCount
	}
}

// PercentFor returns the percentage of rows carrying the given label.
func (a Aggregate) PercentFor(label Label) float64 {
	switch label {
	case PositiveLabel:
		return a.PositivePercent
	case NegativeLabel:
		return a.NegativePercent
	default:
		return a.NeutralPercent
	}
}
