package model

import "time"

// SimulationResult aggregates a strategy sweep over historical draws.
type SimulationResult struct {
	RunID        string
	Strategy     Strategy
	Draws        int
	GridsPerDraw int
	TotalStake   float64
	TotalPayout  float64
	Profit       float64
	ROI          float64 // percent
	Wins         int
	WinRate      float64     // percent of grids with any payout
	TierHits     map[int]int // payout rank -> winning grids
	Fallbacks    int
	StartedAt    time.Time
	FinishedAt   time.Time
}
