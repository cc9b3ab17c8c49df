package schema

import "time"

// CheckName identifies one independent validation check.
type CheckName string

// Validation checks run against an analysis.
const (
	RowCountCheck      CheckName = "row_count"
	RangeCheck         CheckName = "score_range"
	SumCheck           CheckName = "score_sum"
	LabelCheck         CheckName = "label_consistency"
	AggregateCheck     CheckName = "aggregate_derivation"
	TotalsCheck        CheckName = "aggregate_totals"
	RequiredFieldCheck CheckName = "required_fields"
)

// Discrepancy is one human-readable validation failure.
type Discrepancy struct {
	Check   CheckName `json:"check"`
	Row     int       `json:"row"` // Zero-based row index, -1 when not tied to a row
	Message string    `json:"message"`
}

// ScoreStats describes the distribution of compound scores in a table.
type ScoreStats struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Mean     float64   `json:"mean"`
	StdDev   float64   `json:"std"`
}

// ValidationReport is the outcome of checking rows and an aggregate for consistency.
type ValidationReport struct {
	Valid         bool          `json:"valid"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	Warnings      []string      `json:"warnings"`
	Stats         ScoreStats    `json:"stats"`
}
