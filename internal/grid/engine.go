package grid

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"LotoSentinel/internal/model"
	"LotoSentinel/internal/pattern"
)

// PoolMode selects which side of the frequency ranking feeds the
// hot/cold strategy.
type PoolMode string

const (
	PoolHot   PoolMode = "HOT"
	PoolCold  PoolMode = "COLD"
	PoolMixed PoolMode = "MIXED"
)

const (
	balancedCandidates = 100
	defaultPoolSize    = 10
	spreadWeight       = 0.5
)

// Params carries the optional inputs a strategy may need. A strategy
// whose inputs are missing degrades to random generation and marks the
// grid as a fallback instead of failing the run.
type Params struct {
	Stats    []model.SymbolStat // frequency stats, hot/cold pool source
	Summary  *pattern.Summary   // sum and spread targets
	Mode     PoolMode           // hot/cold pool side, MIXED when empty
	PoolSize int                // per-side pool width, 10 when zero
}

// Engine generates playable grids. The caller owns the random source;
// a seeded source replays identical grids.
type Engine struct {
	rules model.Rules
	rng   *rand.Rand
	log   zerolog.Logger
}

// NewEngine validates the rules and binds the random source.
func NewEngine(rules model.Rules, rng *rand.Rand, log zerolog.Logger) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", model.ErrValidation)
	}
	return &Engine{rules: rules, rng: rng, log: log}, nil
}

// Generate builds one grid with the requested strategy.
func (e *Engine) Generate(strategy model.Strategy, p Params) (model.Grid, error) {
	switch strategy {
	case model.StrategyRandom:
		return e.random(), nil
	case model.StrategyAvoidCommon:
		return e.avoidCommon(), nil
	case model.StrategyBalancedSum:
		if p.Summary == nil || p.Summary.Draws == 0 {
			return e.fallback(strategy, "no pattern summary"), nil
		}
		return e.balancedSum(p.Summary), nil
	case model.StrategyHotCold:
		if len(p.Stats) == 0 {
			return e.fallback(strategy, "no frequency stats"), nil
		}
		return e.hotCold(p), nil
	}
	return model.Grid{}, fmt.Errorf("%w: unknown strategy %q", model.ErrValidation, strategy)
}

// fallback substitutes a random grid but keeps the requested strategy
// visible on the result so callers and reports can tell.
func (e *Engine) fallback(requested model.Strategy, reason string) model.Grid {
	e.log.Warn().
		Str("strategy", string(requested)).
		Str("reason", reason).
		Msg("inputs missing, falling back to random generation")
	g := e.random()
	g.Strategy = requested
	g.Fallback = true
	return g
}
