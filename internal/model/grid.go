package model

import (
	"fmt"
	"strings"
)

// Strategy selects a grid generation algorithm.
type Strategy string

const (
	StrategyRandom      Strategy = "RANDOM"
	StrategyAvoidCommon Strategy = "AVOID_COMMON"
	StrategyBalancedSum Strategy = "BALANCED_SUM"
	StrategyHotCold     Strategy = "HOT_COLD"
)

// Strategies returns every generation strategy in report order.
func Strategies() []Strategy {
	return []Strategy{StrategyRandom, StrategyAvoidCommon, StrategyBalancedSum, StrategyHotCold}
}

// ParseStrategy converts a config or command token into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(strings.ToUpper(strings.TrimSpace(s))); v {
	case StrategyRandom, StrategyAvoidCommon, StrategyBalancedSum, StrategyHotCold:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrValidation, s)
}

// Grid is a playable Loto combination. Strategy keeps the requested
// algorithm even when Fallback marks a degraded random generation.
type Grid struct {
	Numbers  []int // ascending, exactly Rules.Picks values
	Chance   int
	Strategy Strategy
	Fallback bool
}
