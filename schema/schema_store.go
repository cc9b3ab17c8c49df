package schema

import "time"

// RunRecord represents a row from the commitmood_runs table.
type RunRecord struct {
	RunID           int64
	RunUUID         string
	Repository      string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TotalCommits    int32
	PositiveCount   int32
	NeutralCount    int32
	NegativeCount   int32
	AverageCompound *float64
	ConfigParams    *string
}

// CommitScoreRecord represents a row from the commitmood_commit_scores table.
type CommitScoreRecord struct {
	RunID      int64
	Position   int32
	ShortHash  string
	Author     string
	CommitDate string
	Message    string
	Compound   float64
	Positive   float64
	Neutral    float64
	Negative   float64
	Label      string
}
