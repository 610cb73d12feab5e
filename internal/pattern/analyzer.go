package pattern

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"LotoSentinel/internal/model"
)

// Summary describes how draw sums and spreads distribute historically.
// The balanced-sum grid strategy aims at these centers.
type Summary struct {
	Draws        int
	SumMean      float64
	SumStdDev    float64
	SpreadMean   float64
	SpreadStdDev float64
}

// Analyze computes sum and spread statistics over the draw history.
func Analyze(draws []model.Draw) (*Summary, error) {
	if len(draws) == 0 {
		return nil, fmt.Errorf("%w: no draws to analyze", model.ErrValidation)
	}
	sums := make([]float64, len(draws))
	spreads := make([]float64, len(draws))
	for i, d := range draws {
		sums[i] = float64(d.Sum())
		spreads[i] = float64(d.Spread())
	}

	sumMean, err := stats.Mean(sums)
	if err != nil {
		return nil, fmt.Errorf("sum mean: %w", err)
	}
	sumStd, err := stats.StandardDeviation(sums)
	if err != nil {
		return nil, fmt.Errorf("sum stddev: %w", err)
	}
	spreadMean, err := stats.Mean(spreads)
	if err != nil {
		return nil, fmt.Errorf("spread mean: %w", err)
	}
	spreadStd, err := stats.StandardDeviation(spreads)
	if err != nil {
		return nil, fmt.Errorf("spread stddev: %w", err)
	}

	return &Summary{
		Draws:        len(draws),
		SumMean:      sumMean,
		SumStdDev:    sumStd,
		SpreadMean:   spreadMean,
		SpreadStdDev: spreadStd,
	}, nil
}
