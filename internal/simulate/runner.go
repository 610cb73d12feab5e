package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"LotoSentinel/internal/grid"
	"LotoSentinel/internal/model"
	"LotoSentinel/internal/pattern"
	"LotoSentinel/internal/payout"
	"LotoSentinel/internal/series"
)

// Runner replays a grid strategy against historical draws and accounts
// stakes against winnings.
type Runner struct {
	rules model.Rules
	table *payout.Table
	log   zerolog.Logger
}

// NewRunner validates the game setup.
func NewRunner(rules model.Rules, table *payout.Table, log zerolog.Logger) (*Runner, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("%w: nil payout table", model.ErrValidation)
	}
	return &Runner{rules: rules, table: table, log: log}, nil
}

// Run plays gridsPerDraw fresh grids against every historical draw.
// Frequency stats and pattern targets are computed once over the whole
// history; walk-forward rigor belongs to the backtest engine. The
// caller owns the random source, so a seeded run replays exactly.
func (r *Runner) Run(draws []model.Draw, strategy model.Strategy, gridsPerDraw int, rng *rand.Rand) (*model.SimulationResult, error) {
	if len(draws) == 0 {
		return nil, fmt.Errorf("%w: no draws to simulate", model.ErrValidation)
	}
	if gridsPerDraw < 1 {
		return nil, fmt.Errorf("%w: grids per draw must be at least 1, got %d",
			model.ErrValidation, gridsPerDraw)
	}
	engine, err := grid.NewEngine(r.rules, rng, r.log)
	if err != nil {
		return nil, err
	}

	stats, err := series.Track(series.DrawSequence(draws), series.BallUniverse(r.rules))
	if err != nil {
		return nil, fmt.Errorf("tracking history: %w", err)
	}
	summary, err := pattern.Analyze(draws)
	if err != nil {
		return nil, fmt.Errorf("analyzing history: %w", err)
	}
	params := grid.Params{Stats: stats, Summary: summary}

	res := &model.SimulationResult{
		RunID:        uuid.NewString(),
		Strategy:     strategy,
		Draws:        len(draws),
		GridsPerDraw: gridsPerDraw,
		TierHits:     make(map[int]int),
		StartedAt:    time.Now(),
	}
	for _, d := range draws {
		for i := 0; i < gridsPerDraw; i++ {
			g, err := engine.Generate(strategy, params)
			if err != nil {
				return nil, err
			}
			if g.Fallback {
				res.Fallbacks++
			}
			pr := r.table.Evaluate(g, d)
			if pr.Won() {
				res.Wins++
				res.TierHits[pr.Rank]++
				res.TotalPayout += pr.Amount
			}
		}
	}
	grids := res.Draws * gridsPerDraw
	res.TotalStake = r.rules.TicketPrice * float64(grids)
	res.Profit = res.TotalPayout - res.TotalStake
	res.ROI = res.Profit / res.TotalStake * 100
	res.WinRate = float64(res.Wins) / float64(grids) * 100
	res.FinishedAt = time.Now()

	r.log.Info().
		Str("run_id", res.RunID).
		Str("strategy", string(strategy)).
		Int("draws", res.Draws).
		Int("grids", grids).
		Float64("roi", res.ROI).
		Msg("simulation finished")
	return res, nil
}
