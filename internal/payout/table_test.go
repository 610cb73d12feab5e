package payout

import (
	"errors"
	"math"
	"testing"
	"time"

	"LotoSentinel/internal/model"
)

var testDraw = model.Draw{
	Date:    time.Date(2025, 6, 14, 21, 0, 0, 0, time.UTC),
	Numbers: []int{7, 12, 23, 34, 45},
	Chance:  3,
	Jackpot: 2000000,
}

// gridMatching builds a grid hitting exactly m draw numbers, with or
// without the chance number.
func gridMatching(m int, chance bool) model.Grid {
	filler := []int{2, 4, 6, 8, 10}
	nums := append([]int{}, testDraw.Numbers[:m]...)
	nums = append(nums, filler[:5-m]...)
	c := 1
	if chance {
		c = testDraw.Chance
	}
	return model.Grid{Numbers: nums, Chance: c, Strategy: model.StrategyRandom}
}

func TestEvaluate_AllCombinations(t *testing.T) {
	table := DefaultTable()
	tests := []struct {
		matches int
		chance  bool
		rank    int
		amount  float64
	}{
		{5, true, 1, 2000000},
		{5, false, 2, 100000},
		{4, true, 3, 1000},
		{4, false, 4, 500},
		{3, true, 5, 50},
		{3, false, 6, 20},
		{2, true, 7, 10},
		{2, false, 8, 5},
		{1, true, 9, 2.20},
		{1, false, 0, 0},
		{0, true, 9, 2.20},
		{0, false, 0, 0},
	}
	for _, tt := range tests {
		res := table.Evaluate(gridMatching(tt.matches, tt.chance), testDraw)
		if res.Matches != tt.matches || res.ChanceMatch != tt.chance {
			t.Errorf("(%d,%t): mismatch detection broken: got (%d,%t)",
				tt.matches, tt.chance, res.Matches, res.ChanceMatch)
		}
		if res.Rank != tt.rank {
			t.Errorf("(%d,%t): expected rank %d, got %d", tt.matches, tt.chance, tt.rank, res.Rank)
		}
		if math.Abs(res.Amount-tt.amount) > 1e-9 {
			t.Errorf("(%d,%t): expected %.2f, got %.2f", tt.matches, tt.chance, tt.amount, res.Amount)
		}
		if res.Won() != (tt.rank > 0) {
			t.Errorf("(%d,%t): Won() disagrees with rank %d", tt.matches, tt.chance, res.Rank)
		}
	}
}

func TestEvaluate_JackpotFollowsDraw(t *testing.T) {
	table := DefaultTable()
	grid := gridMatching(5, true)

	small := testDraw
	small.Jackpot = 4000000
	big := testDraw
	big.Jackpot = 17000000

	if res := table.Evaluate(grid, small); res.Amount != 4000000 {
		t.Errorf("expected the draw's own jackpot 4000000, got %.0f", res.Amount)
	}
	if res := table.Evaluate(grid, big); res.Amount != 17000000 {
		t.Errorf("expected the draw's own jackpot 17000000, got %.0f", res.Amount)
	}
}

func TestNewTable_Validation(t *testing.T) {
	valid := Entry{Matches: 3, Chance: false, Rank: 1, Jackpot: true, Label: "3 bons"}
	tests := []struct {
		name    string
		picks   int
		entries []Entry
	}{
		{"empty", 5, nil},
		{"zero picks", 0, []Entry{valid}},
		{"matches above picks", 3, []Entry{{Matches: 4, Rank: 1, Jackpot: true}}},
		{"negative matches", 5, []Entry{{Matches: -1, Rank: 1, Jackpot: true}}},
		{"zero rank", 5, []Entry{{Matches: 3, Rank: 0, Jackpot: true}}},
		{"negative amount", 5, []Entry{{Matches: 3, Rank: 1, Amount: -5, Jackpot: true}}},
		{"duplicate pair", 5, []Entry{
			{Matches: 3, Chance: true, Rank: 1, Jackpot: true},
			{Matches: 3, Chance: true, Rank: 2, Amount: 10},
		}},
		{"no jackpot entry", 5, []Entry{{Matches: 3, Rank: 1, Amount: 10}}},
		{"two jackpot entries", 5, []Entry{
			{Matches: 5, Chance: true, Rank: 1, Jackpot: true},
			{Matches: 5, Chance: false, Rank: 2, Jackpot: true},
		}},
	}
	for _, tt := range tests {
		if _, err := NewTable(tt.picks, tt.entries); !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("%s: expected configuration error, got %v", tt.name, err)
		}
	}
}

func TestNewTable_CustomGame(t *testing.T) {
	table, err := NewTable(3, []Entry{
		{Matches: 3, Chance: true, Rank: 1, Jackpot: true, Label: "tout"},
		{Matches: 3, Chance: false, Rank: 2, Amount: 500, Label: "3 bons"},
		{Matches: 2, Chance: false, Rank: 3, Amount: 5, Label: "2 bons"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Picks() != 3 {
		t.Errorf("expected picks 3, got %d", table.Picks())
	}

	draw := model.Draw{Numbers: []int{1, 2, 3}, Chance: 1, Jackpot: 1000}
	res := table.Evaluate(model.Grid{Numbers: []int{1, 2, 3}, Chance: 1}, draw)
	if res.Rank != 1 || res.Amount != 1000 {
		t.Errorf("expected jackpot rank, got rank=%d amount=%.0f", res.Rank, res.Amount)
	}
	res = table.Evaluate(model.Grid{Numbers: []int{1, 2, 7}, Chance: 2}, draw)
	if res.Rank != 3 || res.Amount != 5 {
		t.Errorf("expected rank 3 for 2 matches, got rank=%d amount=%.0f", res.Rank, res.Amount)
	}
}
