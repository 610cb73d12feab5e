package model

import "fmt"

// Rules describes a lottery game's fixed parameters.
type Rules struct {
	BallMax        int     // highest main number
	Picks          int     // numbers per grid
	ChanceMax      int     // highest chance number
	CalendarCutoff int     // numbers above it are rarely birthday-picked
	TicketPrice    float64 // cost of one grid in euros
}

// FrenchLoto returns the parameters of the FDJ Loto game.
func FrenchLoto() Rules {
	return Rules{
		BallMax:        49,
		Picks:          5,
		ChanceMax:      10,
		CalendarCutoff: 31,
		TicketPrice:    2.20,
	}
}

// Validate reports whether the rules describe a playable game.
func (r Rules) Validate() error {
	if r.BallMax < 1 || r.Picks < 1 || r.ChanceMax < 1 {
		return fmt.Errorf("%w: rules must be positive (ball_max=%d picks=%d chance_max=%d)",
			ErrValidation, r.BallMax, r.Picks, r.ChanceMax)
	}
	if r.Picks > r.BallMax {
		return fmt.Errorf("%w: cannot pick %d numbers out of %d", ErrValidation, r.Picks, r.BallMax)
	}
	if r.CalendarCutoff < 0 || r.CalendarCutoff > r.BallMax {
		return fmt.Errorf("%w: calendar cutoff %d outside [0, %d]", ErrValidation, r.CalendarCutoff, r.BallMax)
	}
	if r.TicketPrice <= 0 {
		return fmt.Errorf("%w: ticket price must be positive, got %.2f", ErrValidation, r.TicketPrice)
	}
	return nil
}
