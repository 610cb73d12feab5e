package recorder

import (
	"time"

	"LotoSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordOpportunities(_ string, _ time.Time, _ []model.SymbolStat) error {
	return nil
}
func (n *NoopRecorder) RecordSimulation(_ *model.SimulationResult) error  { return nil }
func (n *NoopRecorder) RecordBacktest(_ *model.BacktestResult) error      { return nil }
func (n *NoopRecorder) RecordPredictions(_ []model.Prediction) error      { return nil }
func (n *NoopRecorder) PendingPredictions(_ string) ([]PendingPrediction, error) {
	return nil, nil
}
func (n *NoopRecorder) ResolvePrediction(_ int64, _ model.Outcome, _ int) error { return nil }
func (n *NoopRecorder) Close() error                                            { return nil }
