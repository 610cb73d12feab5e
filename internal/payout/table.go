package payout

import (
	"fmt"

	"LotoSentinel/internal/model"
)

// Entry maps one (matches, chance) pair to a payout rank.
type Entry struct {
	Matches int
	Chance  bool
	Rank    int     // 1 is the jackpot rank
	Amount  float64 // fixed win in euros, unused when Jackpot is set
	Jackpot bool    // pay the draw's carried jackpot instead of Amount
	Label   string
}

// Table is the ordered list of winning combinations for a game.
// Lookups scan the entries in rank order.
type Table struct {
	picks   int
	entries []Entry
}

// DefaultTable returns the FDJ Loto rank grid. Both "1 number + chance"
// and "chance alone" refund the ticket on rank 9.
func DefaultTable() *Table {
	return &Table{
		picks: 5,
		entries: []Entry{
			{Matches: 5, Chance: true, Rank: 1, Jackpot: true, Label: "5 numéros + N° Chance"},
			{Matches: 5, Chance: false, Rank: 2, Amount: 100000, Label: "5 numéros"},
			{Matches: 4, Chance: true, Rank: 3, Amount: 1000, Label: "4 numéros + N° Chance"},
			{Matches: 4, Chance: false, Rank: 4, Amount: 500, Label: "4 numéros"},
			{Matches: 3, Chance: true, Rank: 5, Amount: 50, Label: "3 numéros + N° Chance"},
			{Matches: 3, Chance: false, Rank: 6, Amount: 20, Label: "3 numéros"},
			{Matches: 2, Chance: true, Rank: 7, Amount: 10, Label: "2 numéros + N° Chance"},
			{Matches: 2, Chance: false, Rank: 8, Amount: 5, Label: "2 numéros"},
			{Matches: 1, Chance: true, Rank: 9, Amount: 2.20, Label: "1 numéro + N° Chance"},
			{Matches: 0, Chance: true, Rank: 9, Amount: 2.20, Label: "N° Chance seul"},
		},
	}
}

// NewTable validates and builds a custom rank grid.
func NewTable(picks int, entries []Entry) (*Table, error) {
	if picks < 1 {
		return nil, fmt.Errorf("%w: picks must be positive, got %d", model.ErrConfiguration, picks)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty payout table", model.ErrConfiguration)
	}
	type key struct {
		matches int
		chance  bool
	}
	seen := make(map[key]bool, len(entries))
	jackpots := 0
	for _, e := range entries {
		if e.Matches < 0 || e.Matches > picks {
			return nil, fmt.Errorf("%w: entry %q: match count %d outside [0, %d]",
				model.ErrConfiguration, e.Label, e.Matches, picks)
		}
		if e.Rank < 1 {
			return nil, fmt.Errorf("%w: entry %q: rank %d must be at least 1",
				model.ErrConfiguration, e.Label, e.Rank)
		}
		if e.Amount < 0 {
			return nil, fmt.Errorf("%w: entry %q: negative amount %.2f",
				model.ErrConfiguration, e.Label, e.Amount)
		}
		k := key{e.Matches, e.Chance}
		if seen[k] {
			return nil, fmt.Errorf("%w: duplicate entry for %d matches, chance=%t",
				model.ErrConfiguration, e.Matches, e.Chance)
		}
		seen[k] = true
		if e.Jackpot {
			jackpots++
		}
	}
	if jackpots != 1 {
		return nil, fmt.Errorf("%w: exactly one jackpot entry required, got %d",
			model.ErrConfiguration, jackpots)
	}
	t := &Table{picks: picks, entries: make([]Entry, len(entries))}
	copy(t.entries, entries)
	return t, nil
}

// Picks returns the grid size the table was built for.
func (t *Table) Picks() int { return t.picks }

// Result is the outcome of matching one grid against one draw.
type Result struct {
	Matches     int
	ChanceMatch bool
	Rank        int // 0 when the grid wins nothing
	Amount      float64
	Label       string
}

// Won reports whether any rank was hit.
func (r Result) Won() bool { return r.Rank > 0 }

// Evaluate matches a grid against a draw. Every reachable combination
// yields a defined outcome; pairs without an entry simply lose.
func (t *Table) Evaluate(g model.Grid, d model.Draw) Result {
	matches := 0
	for _, n := range g.Numbers {
		if d.Contains(n) {
			matches++
		}
	}
	res := Result{Matches: matches, ChanceMatch: g.Chance == d.Chance}
	for _, e := range t.entries {
		if e.Matches == res.Matches && e.Chance == res.ChanceMatch {
			res.Rank = e.Rank
			res.Label = e.Label
			if e.Jackpot {
				res.Amount = d.Jackpot
			} else {
				res.Amount = e.Amount
			}
			break
		}
	}
	return res
}
