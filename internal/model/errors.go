package model

import "errors"

// Sentinel errors for the analysis engine. Wrap with fmt.Errorf("%w: ...")
// at the point of detection; callers distinguish with errors.Is.
var (
	// ErrValidation marks malformed or empty input.
	ErrValidation = errors.New("invalid input")
	// ErrInsufficientData marks input that is well-formed but too short
	// for the requested computation.
	ErrInsufficientData = errors.New("insufficient history")
	// ErrConfiguration marks an unusable static setup, such as a payout
	// table with duplicate entries.
	ErrConfiguration = errors.New("invalid configuration")
)
