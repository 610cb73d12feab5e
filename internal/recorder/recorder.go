package recorder

import (
	"time"

	"LotoSentinel/internal/model"
)

// PendingPrediction pairs a stored prediction with its database row key,
// which ResolvePrediction needs to settle it later.
type PendingPrediction struct {
	RowID      int64
	Prediction model.Prediction
}

// Recorder persists analysis output for later review.
type Recorder interface {
	RecordOpportunities(kind string, date time.Time, stats []model.SymbolStat) error
	RecordSimulation(res *model.SimulationResult) error
	RecordBacktest(res *model.BacktestResult) error
	RecordPredictions(preds []model.Prediction) error
	PendingPredictions(kind string) ([]PendingPrediction, error)
	ResolvePrediction(rowID int64, outcome model.Outcome, steps int) error
	Close() error
}

// unixTime flattens a time to Unix seconds, keeping zero times at 0.
func unixTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
