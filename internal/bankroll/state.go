package bankroll

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// State is the persisted play budget. Month marks the replenish
// boundary in "2006-01" form.
type State struct {
	MonthlyBudget float64   `json:"monthly_budget"`
	Remaining     float64   `json:"remaining"`
	SpentTotal    float64   `json:"spent_total"`
	GridsPlayed   int       `json:"grids_played"`
	Month         string    `json:"month"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoadState reads the budget state from a JSON file. A missing file
// yields a zero state.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("read bankroll state: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse bankroll state: %w", err)
	}
	return &state, nil
}

// SaveState writes the budget state to a JSON file.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
