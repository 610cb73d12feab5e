package model

// Tier classifies an opportunity's strength.
type Tier string

const (
	TierHigh  Tier = "HIGH"
	TierAlert Tier = "ALERT"
	TierNone  Tier = "NONE"
)

// SymbolStat is the per-symbol output of the frequency tracker.
// Value multiplies frequency by the current streak; a symbol that never
// occurred keeps frequency 0 and therefore value 0 no matter how long
// the streak grows.
type SymbolStat struct {
	ID        string
	Count     int
	Frequency float64 // occurrences / records, within [0, 1]
	Streak    int     // trailing records without an occurrence
	LastSeen  int     // index of the latest occurrence, -1 if never
	Value     float64 // Frequency * Streak
	Tier      Tier
}
