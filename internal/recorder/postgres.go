package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"LotoSentinel/internal/model"
)

// PostgresRecorder persists analysis output to a PostgreSQL database,
// for deployments where the bot shares a server with other services.
type PostgresRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewPostgresRecorder connects to PostgreSQL and runs migrations.
func NewPostgresRecorder(dsn string, log zerolog.Logger) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Msg("postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS opportunities (
			id        BIGSERIAL PRIMARY KEY,
			timestamp BIGINT NOT NULL,
			kind      TEXT NOT NULL,
			draw_date BIGINT,
			symbol    TEXT NOT NULL,
			count     INTEGER,
			frequency DOUBLE PRECISION,
			streak    INTEGER,
			value     DOUBLE PRECISION,
			tier      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opportunities_ts ON opportunities(timestamp)`,

		`CREATE TABLE IF NOT EXISTS simulations (
			id             BIGSERIAL PRIMARY KEY,
			timestamp      BIGINT NOT NULL,
			run_id         TEXT,
			strategy       TEXT,
			draws          INTEGER,
			grids_per_draw INTEGER,
			total_stake    DOUBLE PRECISION,
			total_payout   DOUBLE PRECISION,
			profit         DOUBLE PRECISION,
			roi            DOUBLE PRECISION,
			wins           INTEGER,
			win_rate       DOUBLE PRECISION,
			tier_hits      TEXT,
			fallbacks      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_ts ON simulations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtests (
			id                   BIGSERIAL PRIMARY KEY,
			timestamp            BIGINT NOT NULL,
			run_id               TEXT,
			kind                 TEXT,
			records              INTEGER,
			warmup               INTEGER,
			lookahead            INTEGER,
			threshold            DOUBLE PRECISION,
			correct              INTEGER,
			incorrect            INTEGER,
			pending              INTEGER,
			success_rate         DOUBLE PRECISION,
			mean_value_correct   DOUBLE PRECISION,
			mean_value_incorrect DOUBLE PRECISION,
			mean_steps           DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtests_ts ON backtests(timestamp)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id        BIGSERIAL PRIMARY KEY,
			timestamp BIGINT NOT NULL,
			kind      TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			pred_date BIGINT,
			as_of     INTEGER,
			value     DOUBLE PRECISION,
			frequency DOUBLE PRECISION,
			streak    INTEGER,
			threshold DOUBLE PRECISION,
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

func (r *PostgresRecorder) RecordOpportunities(kind string, date time.Time, stats []model.SymbolStat) error {
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
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			now, kind, unixTime(date), st.ID, st.Count,
			st.Frequency, st.Streak, st.Value, string(st.Tier),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresRecorder) RecordSimulation(res *model.SimulationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hits, err := json.Marshal(res.TierHits)
	if err != nil {
		return fmt.Errorf("encode tier hits: %w", err)
	}
	_, err = r.db.Exec(`INSERT INTO simulations
		(timestamp, run_id, strategy, draws, grids_per_draw,
		 total_stake, total_payout, profit, roi, wins, win_rate, tier_hits, fallbacks)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		time.Now().Unix(), res.RunID, string(res.Strategy), res.Draws, res.GridsPerDraw,
		res.TotalStake, res.TotalPayout, res.Profit, res.ROI,
		res.Wins, res.WinRate, string(hits), res.Fallbacks,
	)
	return err
}

func (r *PostgresRecorder) RecordBacktest(res *model.BacktestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO backtests
		(timestamp, run_id, kind, records, warmup, lookahead, threshold,
		 correct, incorrect, pending, success_rate,
		 mean_value_correct, mean_value_incorrect, mean_steps)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		time.Now().Unix(), res.RunID, res.Kind, res.Records,
		res.Warmup, res.Lookahead, res.Threshold,
		res.Correct, res.Incorrect, res.Pending, res.SuccessRate,
		res.MeanValueCorrect, res.MeanValueIncorrect, res.MeanSteps,
	)
	return err
}

func (r *PostgresRecorder) RecordPredictions(preds []model.Prediction) error {
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
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
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

func (r *PostgresRecorder) PendingPredictions(kind string) ([]PendingPrediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, kind, symbol, pred_date, as_of, value, frequency, streak, threshold, outcome, steps
		FROM predictions WHERE kind = $1 AND outcome = $2 ORDER BY id`,
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

func (r *PostgresRecorder) ResolvePrediction(rowID int64, outcome model.Outcome, steps int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`UPDATE predictions SET outcome = $1, steps = $2 WHERE id = $3`,
		string(outcome), steps, rowID)
	return err
}

func (r *PostgresRecorder) Close() error {
	r.log.Info().Msg("closing postgres recorder")
	return r.db.Close()
}
