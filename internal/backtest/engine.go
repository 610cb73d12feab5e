package backtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"

	"LotoSentinel/internal/model"
	"LotoSentinel/internal/series"
)

// Options bounds a walk-forward sweep.
type Options struct {
	Threshold float64 // series value that triggers a prediction
	Lookahead int     // records a prediction gets to realize
	Warmup    int     // records required before the first analysis
}

// DefaultOptions mirrors the live alert tuning.
func DefaultOptions() Options {
	return Options{Threshold: 2.5, Lookahead: 10, Warmup: 20}
}

// Engine replays the law-of-series heuristic over history. One engine
// serves draws and matches alike: the sequence carries the "did it
// occur" behavior, so nothing here branches on the game kind.
type Engine struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

// Run slides an analysis point from warmup to len-lookahead inclusive.
// At each point it recomputes stats over the visible prefix only, emits
// a prediction for every symbol at or above the threshold, and resolves
// it against the following lookahead records. Every prediction inside
// those bounds resolves to CORRECT or INCORRECT.
func (e *Engine) Run(seq series.Sequence, universe []string, kind string, opts Options) (*model.BacktestResult, error) {
	if opts.Threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive, got %v", model.ErrValidation, opts.Threshold)
	}
	if opts.Lookahead < 1 {
		return nil, fmt.Errorf("%w: lookahead must be at least 1, got %d", model.ErrValidation, opts.Lookahead)
	}
	if opts.Warmup < 1 {
		return nil, fmt.Errorf("%w: warmup must be at least 1, got %d", model.ErrValidation, opts.Warmup)
	}
	if seq == nil || seq.Len() == 0 {
		return nil, fmt.Errorf("%w: empty history", model.ErrValidation)
	}
	if len(universe) == 0 {
		return nil, fmt.Errorf("%w: empty symbol universe", model.ErrValidation)
	}
	if seq.Len() < opts.Warmup+opts.Lookahead {
		return nil, fmt.Errorf("%w: %d records, need at least warmup+lookahead = %d",
			model.ErrInsufficientData, seq.Len(), opts.Warmup+opts.Lookahead)
	}

	res := &model.BacktestResult{
		RunID:     uuid.NewString(),
		Kind:      kind,
		Records:   seq.Len(),
		Warmup:    opts.Warmup,
		Lookahead: opts.Lookahead,
		Threshold: opts.Threshold,
		StartedAt: time.Now(),
	}

	for i := opts.Warmup; i <= seq.Len()-opts.Lookahead; i++ {
		visible, err := series.Track(series.Prefix(seq, i), universe)
		if err != nil {
			return nil, fmt.Errorf("stats at record %d: %w", i, err)
		}
		for _, st := range visible {
			if st.Value < opts.Threshold {
				continue
			}
			p := model.Prediction{
				ID:        st.ID,
				Kind:      kind,
				AsOf:      i,
				Value:     st.Value,
				Frequency: st.Frequency,
				Streak:    st.Streak,
				Threshold: opts.Threshold,
				Outcome:   model.OutcomePending,
			}
			// Step s lands on record i+s-1; the sweep bound keeps
			// every step inside the history.
			for step := 1; step <= opts.Lookahead; step++ {
				if seq.Occurred(st.ID, i+step-1) {
					p.Outcome = model.OutcomeCorrect
					p.Steps = step
					break
				}
			}
			if p.Outcome == model.OutcomePending {
				p.Outcome = model.OutcomeIncorrect
			}
			res.Predictions = append(res.Predictions, p)
		}
	}

	aggregate(res)
	res.FinishedAt = time.Now()

	e.log.Info().
		Str("run_id", res.RunID).
		Str("kind", kind).
		Int("predictions", len(res.Predictions)).
		Float64("success_rate", res.SuccessRate).
		Msg("backtest finished")
	return res, nil
}

// aggregate fills counts, the success rate and the outcome means.
// Pending predictions stay out of the success rate.
func aggregate(res *model.BacktestResult) {
	var correctValues, incorrectValues, steps []float64
	for _, p := range res.Predictions {
		switch p.Outcome {
		case model.OutcomeCorrect:
			res.Correct++
			correctValues = append(correctValues, p.Value)
			steps = append(steps, float64(p.Steps))
		case model.OutcomeIncorrect:
			res.Incorrect++
			incorrectValues = append(incorrectValues, p.Value)
		case model.OutcomePending:
			res.Pending++
		}
	}
	if resolved := res.Correct + res.Incorrect; resolved > 0 {
		res.SuccessRate = float64(res.Correct) / float64(resolved)
	}
	res.MeanValueCorrect = meanOf(correctValues)
	res.MeanValueIncorrect = meanOf(incorrectValues)
	res.MeanSteps = meanOf(steps)
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
