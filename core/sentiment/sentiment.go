// Package sentiment scores commit messages with the VADER lexicon.
package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/huangsam/commitmood/internal/contract"
	"github.com/huangsam/commitmood/schema"
)

// Compound thresholds separating the three labels.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Scorer implements contract.SentimentScorer using govader.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var _ contract.SentimentScorer = &Scorer{} // Compile-time check

// NewScorer loads the lexicon and returns a reusable scorer.
func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the polarity scores of text and its label.
// Text without any scorable token is reported as fully neutral.
func (s *Scorer) Score(text string) schema.ScoreResult {
	scores := s.analyzer.PolarityScores(text)
	result := schema.ScoreResult{
		Compound: scores.Compound,
		Positive: scores.Positive,
		Neutral:  scores.Neutral,
		Negative: scores.Negative,
		Label:    LabelFor(scores.Compound),
	}
	if result.Positive == 0 && result.Neutral == 0 && result.Negative == 0 {
		result.Neutral = 1
	}
	return result
}

// LabelFor maps a compound score to its label.
func LabelFor(compound float64) schema.Label {
	switch {
	case compound >= PositiveThreshold:
		return schema.PositiveLabel
	case compound <= NegativeThreshold:
		return schema.NegativeLabel
	default:
		return schema.NeutralLabel
	}
}
