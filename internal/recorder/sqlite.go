package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"LotoSentinel/internal/model"
)

// SQLiteRecorder persists analysis output to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (Grafana reads while bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS opportunities (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			kind      TEXT NOT NULL,
			draw_date INTEGER,
			symbol    TEXT NOT NULL,
			count     INTEGER,
			frequency REAL,
			streak    INTEGER,
			value     REAL,
			tier      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_ts ON opportunities(timestamp)`,

		`CREATE TABLE IF NOT EXISTS simulations (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			run_id         TEXT,
			strategy       TEXT,
			draws          INTEGER,
			grids_per_draw INTEGER,
			total_stake    REAL,
			total_payout   REAL,
			profit         REAL,
			roi            REAL,
			wins           INTEGER,
			win_rate       REAL,
			tier_hits      TEXT,
			fallbacks      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_ts ON simulations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtests (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp            INTEGER NOT NULL,
			run_id               TEXT,
			kind                 TEXT,
			records              INTEGER,
			warmup               INTEGER,
			lookahead            INTEGER,
			threshold            REAL,
			correct              INTEGER,
			incorrect            INTEGER,
			pending              INTEGER,
			success_rate         REAL,
			mean_value_correct   REAL,
			mean_value_incorrect REAL,
			mean_steps           REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtests_ts ON backtests(timestamp)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			kind      TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			pred_date INTEGER,
			as_of     INTEGER,
			value     REAL,
			frequency REAL,
			streak    INTEGER,
			threshold REAL,
			outcome   TEXT NOT NULL,
			steps     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_outcome ON predictions(kind, outcome)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordOpportunities(kind string, date time.Time, stats []model.SymbolStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, st := range stats {
		if _, err := tx.Exec(`INSERT INTO opportunities
			(timestamp, kind, draw_date, symbol, count, frequency, streak, value, tier)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			now, kind, unixTime(date), st.ID, st.Count,
			st.Frequency, st.Streak, st.Value, string(st.Tier),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSimulation(res *model.SimulationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hits, err := json.Marshal(res.TierHits)
	if err != nil {
		return fmt.Errorf("encode tier hits: %w", err)
	}
	_, err = r.db.Exec(`INSERT INTO simulations
		(timestamp, run_id, strategy, draws, grids_per_draw,
		 total_stake, total_payout, profit, roi, wins, win_rate, tier_hits, fallbacks)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.RunID, string(res.Strategy), res.Draws, res.GridsPerDraw,
		res.TotalStake, res.TotalPayout, res.Profit, res.ROI,
		res.Wins, res.WinRate, string(hits), res.Fallbacks,
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(res *model.BacktestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO backtests
		(timestamp, run_id, kind, records, warmup, lookahead, threshold,
		 correct, incorrect, pending, success_rate,
		 mean_value_correct, mean_value_incorrect, mean_steps)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.RunID, res.Kind, res.Records,
		res.Warmup, res.Lookahead, res.Threshold,
		res.Correct, res.Incorrect, res.Pending, res.SuccessRate,
		res.MeanValueCorrect, res.MeanValueIncorrect, res.MeanSteps,
	)
	return err
}

func (r *SQLiteRecorder) RecordPredictions(preds []model.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	for _, p := range preds {
		if _, err := tx.Exec(`INSERT INTO predictions
			(timestamp, kind, symbol, pred_date, as_of, value, frequency, streak, threshold, outcome, steps)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			now, p.Kind, p.ID, unixTime(p.Date), p.AsOf,
			p.Value, p.Frequency, p.Streak, p.Threshold,
			string(p.Outcome), p.Steps,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) PendingPredictions(kind string) ([]PendingPrediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, kind, symbol, pred_date, as_of, value, frequency, streak, threshold, outcome, steps
		FROM predictions WHERE kind = ? AND outcome = ? ORDER BY id`,
		kind, string(model.OutcomePending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []PendingPrediction
	for rows.Next() {
		var (
			rowID   int64
			predSec int64
			outcome string
			p       model.Prediction
		)
		if err := rows.Scan(&rowID, &p.Kind, &p.ID, &predSec, &p.AsOf,
			&p.Value, &p.Frequency, &p.Streak, &p.Threshold, &outcome, &p.Steps); err != nil {
			return nil, err
		}
		p.Date = fromUnix(predSec)
		p.Outcome = model.Outcome(outcome)
		pending = append(pending, PendingPrediction{RowID: rowID, Prediction: p})
	}
	return pending, rows.Err()
}

func (r *SQLiteRecorder) ResolvePrediction(rowID int64, outcome model.Outcome, steps int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`UPDATE predictions SET outcome = ?, steps = ? WHERE id = ?`,
		string(outcome), steps, rowID)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
