package bankroll

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"LotoSentinel/internal/model"
)

// Manager guards a monthly play budget with file persistence. The
// remaining balance refills automatically on the first access of a new
// month, so a bot that was offline on the 1st still replenishes.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
	log      zerolog.Logger
}

// NewManager creates a Manager, loading or initializing state from disk.
// A budget change in the config takes over immediately but never touches
// the balance already remaining this month.
func NewManager(filePath string, monthlyBudget float64, log zerolog.Logger) (*Manager, error) {
	if monthlyBudget <= 0 {
		return nil, fmt.Errorf("%w: monthly budget must be positive, got %v",
			model.ErrConfiguration, monthlyBudget)
	}
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if state.MonthlyBudget == 0 {
		state.MonthlyBudget = monthlyBudget
		state.Remaining = monthlyBudget
		state.Month = time.Now().Format("2006-01")
	} else if state.MonthlyBudget != monthlyBudget {
		state.MonthlyBudget = monthlyBudget
	}

	m := &Manager{state: state, filePath: filePath, log: log}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// State returns a copy of the current budget state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()
	return *m.state
}

// Affordable returns how many of the requested grids still fit the
// remaining monthly budget at the given ticket price.
func (m *Manager) Affordable(requested int, ticketPrice float64) int {
	if requested <= 0 || ticketPrice <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()

	// The epsilon absorbs float64 division dust; without it a balance of
	// exactly three tickets can divide to 2.999... and lose a grid.
	n := int((m.state.Remaining + 1e-9) / ticketPrice)
	if n > requested {
		n = requested
	}
	return n
}

// Spend debits the given number of grids and returns the updated state.
func (m *Manager) Spend(grids int, ticketPrice float64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()

	cost := float64(grids) * ticketPrice
	m.state.Remaining -= cost
	if m.state.Remaining < 0 {
		m.state.Remaining = 0
	}
	m.state.SpentTotal += cost
	m.state.GridsPlayed += grids

	if err := m.save(); err != nil {
		m.log.Error().Err(err).Msg("save bankroll state")
	}
	return *m.state
}

// rollover refills the balance when the calendar month has changed.
// Callers must hold the mutex.
func (m *Manager) rollover() {
	month := time.Now().Format("2006-01")
	if m.state.Month == month {
		return
	}
	m.state.Month = month
	m.state.Remaining = m.state.MonthlyBudget
	if err := m.save(); err != nil {
		m.log.Error().Err(err).Msg("save bankroll state after rollover")
	}
	m.log.Info().Str("month", month).Float64("budget", m.state.MonthlyBudget).Msg("play budget replenished")
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
