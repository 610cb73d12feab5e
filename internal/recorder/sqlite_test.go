package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"LotoSentinel/internal/model"
)

var (
	_ Recorder = (*SQLiteRecorder)(nil)
	_ Recorder = (*PostgresRecorder)(nil)
	_ Recorder = (*NoopRecorder)(nil)
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLite_PredictionLifecycle(t *testing.T) {
	r := openTestDB(t)

	preds := []model.Prediction{
		{ID: "23", Kind: "loto", Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			AsOf: 40, Value: 3.1, Frequency: 0.31, Streak: 10, Threshold: 2.5, Outcome: model.OutcomePending},
		{ID: "OVER_2.5", Kind: "football", AsOf: 12, Value: 2.7,
			Frequency: 0.45, Streak: 6, Threshold: 2.5, Outcome: model.OutcomePending},
	}
	if err := r.RecordPredictions(preds); err != nil {
		t.Fatalf("record predictions: %v", err)
	}

	pending, err := r.PendingPredictions("loto")
	if err != nil {
		t.Fatalf("pending predictions: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending loto prediction, got %d", len(pending))
	}
	got := pending[0].Prediction
	if got.ID != "23" || got.AsOf != 40 || got.Value != 3.1 || got.Streak != 10 {
		t.Errorf("bad stored prediction: %+v", got)
	}
	if !got.Date.Equal(preds[0].Date) {
		t.Errorf("date lost in round trip: %v", got.Date)
	}

	if err := r.ResolvePrediction(pending[0].RowID, model.OutcomeCorrect, 3); err != nil {
		t.Fatalf("resolve prediction: %v", err)
	}
	pending, err = r.PendingPredictions("loto")
	if err != nil {
		t.Fatalf("pending predictions: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("resolved prediction still pending: %+v", pending)
	}

	var outcome string
	var steps int
	err = r.db.QueryRow(`SELECT outcome, steps FROM predictions WHERE symbol = '23'`).Scan(&outcome, &steps)
	if err != nil {
		t.Fatalf("query resolved row: %v", err)
	}
	if outcome != string(model.OutcomeCorrect) || steps != 3 {
		t.Errorf("expected CORRECT after 3 steps, got %s/%d", outcome, steps)
	}
}

func TestSQLite_RecordOpportunities(t *testing.T) {
	r := openTestDB(t)

	stats := []model.SymbolStat{
		{ID: "7", Count: 12, Frequency: 0.3, Streak: 9, Value: 2.7, Tier: model.TierHigh},
		{ID: "31", Count: 10, Frequency: 0.25, Streak: 9, Value: 2.25, Tier: model.TierAlert},
	}
	date := time.Date(2025, 3, 1, 21, 0, 0, 0, time.UTC)
	if err := r.RecordOpportunities("loto", date, stats); err != nil {
		t.Fatalf("record opportunities: %v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM opportunities WHERE kind = 'loto'`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}

	var tier string
	var value float64
	err := r.db.QueryRow(`SELECT tier, value FROM opportunities WHERE symbol = '7'`).Scan(&tier, &value)
	if err != nil {
		t.Fatalf("query row: %v", err)
	}
	if tier != string(model.TierHigh) || value != 2.7 {
		t.Errorf("bad stored opportunity: %s/%v", tier, value)
	}
}

func TestSQLite_RecordSimulation(t *testing.T) {
	r := openTestDB(t)

	res := &model.SimulationResult{
		RunID:        "run-1",
		Strategy:     model.StrategyBalancedSum,
		Draws:        100,
		GridsPerDraw: 3,
		TotalStake:   660,
		TotalPayout:  120.4,
		Profit:       -539.6,
		ROI:          -81.76,
		Wins:         41,
		WinRate:      13.67,
		TierHits:     map[int]int{9: 30, 8: 11},
	}
	if err := r.RecordSimulation(res); err != nil {
		t.Fatalf("record simulation: %v", err)
	}

	var strategy, hits string
	var roi float64
	err := r.db.QueryRow(`SELECT strategy, tier_hits, roi FROM simulations`).Scan(&strategy, &hits, &roi)
	if err != nil {
		t.Fatalf("query row: %v", err)
	}
	if strategy != string(model.StrategyBalancedSum) || roi != -81.76 {
		t.Errorf("bad stored simulation: %s/%v", strategy, roi)
	}
	if hits != `{"8":11,"9":30}` {
		t.Errorf("bad tier hits payload: %s", hits)
	}
}

func TestSQLite_RecordBacktest(t *testing.T) {
	r := openTestDB(t)

	res := &model.BacktestResult{
		RunID: "run-2", Kind: "loto", Records: 120, Warmup: 20, Lookahead: 10,
		Threshold: 2.5, Correct: 14, Incorrect: 5, Pending: 2,
		SuccessRate: 14.0 / 19.0, MeanSteps: 3.4,
	}
	if err := r.RecordBacktest(res); err != nil {
		t.Fatalf("record backtest: %v", err)
	}

	var correct, incorrect int
	var rate float64
	err := r.db.QueryRow(`SELECT correct, incorrect, success_rate FROM backtests`).Scan(&correct, &incorrect, &rate)
	if err != nil {
		t.Fatalf("query row: %v", err)
	}
	if correct != 14 || incorrect != 5 || rate != 14.0/19.0 {
		t.Errorf("bad stored backtest: %d/%d/%v", correct, incorrect, rate)
	}
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	r, err := NewSQLiteRecorder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	preds := []model.Prediction{{ID: "5", Kind: "loto", Outcome: model.OutcomePending, Threshold: 2.5}}
	if err := r.RecordPredictions(preds); err != nil {
		t.Fatalf("record predictions: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err = NewSQLiteRecorder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen recorder: %v", err)
	}
	defer r.Close()

	pending, err := r.PendingPredictions("loto")
	if err != nil {
		t.Fatalf("pending predictions: %v", err)
	}
	if len(pending) != 1 || pending[0].Prediction.ID != "5" {
		t.Errorf("data lost across reopen: %+v", pending)
	}
	if !pending[0].Prediction.Date.IsZero() {
		t.Errorf("zero date should stay zero, got %v", pending[0].Prediction.Date)
	}
}
