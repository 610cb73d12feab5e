package model

import "time"

// Outcome is the resolution state of one flagged opportunity.
type Outcome string

const (
	OutcomeCorrect   Outcome = "CORRECT"
	OutcomeIncorrect Outcome = "INCORRECT"
	OutcomePending   Outcome = "PENDING"
)

// Prediction is a single "this series should break soon" call.
type Prediction struct {
	ID        string // symbol or market identifier
	Kind      string // game kind, e.g. "loto" or "football"
	Date      time.Time
	AsOf      int // history index the call was made at
	Value     float64
	Frequency float64
	Streak    int
	Threshold float64
	Outcome   Outcome
	Steps     int // 1-indexed records until realization, 0 unless correct
}

// BacktestResult aggregates a walk-forward sweep over history.
type BacktestResult struct {
	RunID              string
	Kind               string
	Records            int
	Warmup             int
	Lookahead          int
	Threshold          float64
	Predictions        []Prediction
	Correct            int
	Incorrect          int
	Pending            int
	SuccessRate        float64 // correct / (correct + incorrect), pending excluded
	MeanValueCorrect   float64
	MeanValueIncorrect float64
	MeanSteps          float64 // over correct predictions
	StartedAt          time.Time
	FinishedAt         time.Time
}
