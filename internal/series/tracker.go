package series

import (
	"fmt"

	"LotoSentinel/internal/model"
)

// Track computes occurrence statistics for every id of the universe
// over the whole sequence. The streak counts trailing records without
// an occurrence, so a symbol present in the newest record has streak 0
// and a symbol that never occurred has streak Len() with frequency 0.
func Track(seq Sequence, universe []string) ([]model.SymbolStat, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, fmt.Errorf("%w: empty history", model.ErrValidation)
	}
	if len(universe) == 0 {
		return nil, fmt.Errorf("%w: empty symbol universe", model.ErrValidation)
	}
	seen := make(map[string]bool, len(universe))
	for _, id := range universe {
		if id == "" {
			return nil, fmt.Errorf("%w: empty symbol id in universe", model.ErrValidation)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate symbol %q in universe", model.ErrValidation, id)
		}
		seen[id] = true
	}

	n := seq.Len()
	stats := make([]model.SymbolStat, 0, len(universe))
	for _, id := range universe {
		st := model.SymbolStat{ID: id, LastSeen: -1, Tier: model.TierNone}
		for i := 0; i < n; i++ {
			if seq.Occurred(id, i) {
				st.Count++
				st.LastSeen = i
			}
		}
		st.Frequency = float64(st.Count) / float64(n)
		st.Streak = n - 1 - st.LastSeen
		st.Value = st.Frequency * float64(st.Streak)
		stats = append(stats, st)
	}
	return stats, nil
}
