package series

import (
	"fmt"
	"sort"

	"LotoSentinel/internal/model"
)

// Thresholds holds the tier boundaries applied to the series value.
type Thresholds struct {
	High  float64
	Alert float64
}

// DefaultThresholds matches the dashboard's historical tuning: a ball
// with average frequency missing for ~25 draws crosses High.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 2.5, Alert: 2.0}
}

// Validate reports whether the boundaries are usable.
func (t Thresholds) Validate() error {
	if t.Alert <= 0 || t.High <= 0 {
		return fmt.Errorf("%w: thresholds must be positive (high=%.2f alert=%.2f)",
			model.ErrConfiguration, t.High, t.Alert)
	}
	if t.High < t.Alert {
		return fmt.Errorf("%w: high threshold %.2f below alert threshold %.2f",
			model.ErrConfiguration, t.High, t.Alert)
	}
	return nil
}

// Classify maps a series value onto its alert tier.
func (t Thresholds) Classify(value float64) model.Tier {
	boundaries := []struct {
		min  float64
		tier model.Tier
	}{
		{t.High, model.TierHigh},
		{t.Alert, model.TierAlert},
	}
	for _, b := range boundaries {
		if value >= b.min {
			return b.tier
		}
	}
	return model.TierNone
}

// Value returns the law-of-series score for one symbol.
func Value(frequency float64, streak int) float64 {
	return frequency * float64(streak)
}

// Score fills in tiers and orders the stats by value descending,
// id ascending on equal values.
func Score(stats []model.SymbolStat, t Thresholds) []model.SymbolStat {
	scored := make([]model.SymbolStat, len(stats))
	copy(scored, stats)
	for i := range scored {
		scored[i].Tier = t.Classify(scored[i].Value)
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Value != scored[j].Value {
			return scored[i].Value > scored[j].Value
		}
		return scored[i].ID < scored[j].ID
	})
	return scored
}

// Opportunities returns only the stats that reached a tier, scored and
// ordered the same way as Score.
func Opportunities(stats []model.SymbolStat, t Thresholds) []model.SymbolStat {
	var out []model.SymbolStat
	for _, st := range Score(stats, t) {
		if st.Tier != model.TierNone {
			out = append(out, st)
		}
	}
	return out
}
