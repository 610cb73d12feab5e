package grid

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"LotoSentinel/internal/model"
	"LotoSentinel/internal/pattern"
)

func testEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e, err := NewEngine(model.FrenchLoto(), rand.New(rand.NewSource(seed)), zerolog.Nop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func checkGrid(t *testing.T, g model.Grid, rules model.Rules) {
	t.Helper()
	if len(g.Numbers) != rules.Picks {
		t.Fatalf("expected %d numbers, got %v", rules.Picks, g.Numbers)
	}
	seen := make(map[int]bool)
	prev := 0
	for _, n := range g.Numbers {
		if n < 1 || n > rules.BallMax {
			t.Fatalf("number %d outside [1, %d]", n, rules.BallMax)
		}
		if seen[n] {
			t.Fatalf("duplicate number %d in %v", n, g.Numbers)
		}
		if n <= prev {
			t.Fatalf("numbers not ascending: %v", g.Numbers)
		}
		seen[n] = true
		prev = n
	}
	if g.Chance < 1 || g.Chance > rules.ChanceMax {
		t.Fatalf("chance %d outside [1, %d]", g.Chance, rules.ChanceMax)
	}
}

// statsRamp builds stats where ball 1 is the hottest and 49 the coldest.
func statsRamp() []model.SymbolStat {
	stats := make([]model.SymbolStat, 0, 49)
	for n := 1; n <= 49; n++ {
		stats = append(stats, model.SymbolStat{
			ID:        strconv.Itoa(n),
			Frequency: float64(50-n) / 100,
		})
	}
	return stats
}

func fullParams() Params {
	return Params{
		Stats:   statsRamp(),
		Summary: &pattern.Summary{Draws: 200, SumMean: 125, SpreadMean: 38},
	}
}

func TestGenerate_PostConditions(t *testing.T) {
	rules := model.FrenchLoto()
	e := testEngine(t, 1)
	for _, s := range model.Strategies() {
		for i := 0; i < 50; i++ {
			g, err := e.Generate(s, fullParams())
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", s, err)
			}
			checkGrid(t, g, rules)
			if g.Strategy != s {
				t.Fatalf("expected strategy %s on the grid, got %s", s, g.Strategy)
			}
			if g.Fallback {
				t.Fatalf("%s: unexpected fallback with full inputs", s)
			}
		}
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	first := testEngine(t, 42)
	second := testEngine(t, 42)
	for _, s := range model.Strategies() {
		for i := 0; i < 10; i++ {
			a, err := first.Generate(s, fullParams())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b, err := second.Generate(s, fullParams())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("%s: same seed produced %v and %v", s, a, b)
			}
		}
	}
}

func TestAvoidCommon_UncommonShare(t *testing.T) {
	e := testEngine(t, 7)
	for i := 0; i < 100; i++ {
		g, err := e.Generate(model.StrategyAvoidCommon, Params{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		above := 0
		for _, n := range g.Numbers {
			if n > 31 {
				above++
			}
		}
		if above != 3 && above != 4 {
			t.Fatalf("expected 3 or 4 numbers above 31, got %d in %v", above, g.Numbers)
		}
	}
}

func TestBalancedSum_TracksTargets(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		e := testEngine(t, seed)
		summary := &pattern.Summary{Draws: 300, SumMean: 125, SpreadMean: 38}
		g, err := e.Generate(model.StrategyBalancedSum, Params{Summary: summary})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum := 0
		for _, n := range g.Numbers {
			sum += n
		}
		// Best of 100 candidates lands close to the target.
		if math.Abs(float64(sum)-125) > 35 {
			t.Errorf("seed %d: sum %d too far from target 125 (%v)", seed, sum, g.Numbers)
		}
	}
}

func TestBalancedSum_SkewsTowardLowTarget(t *testing.T) {
	e := testEngine(t, 3)
	summary := &pattern.Summary{Draws: 300, SumMean: 15, SpreadMean: 4}
	g, err := e.Generate(model.StrategyBalancedSum, Params{Summary: summary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := 0
	for _, n := range g.Numbers {
		sum += n
	}
	if sum > 100 {
		t.Errorf("expected a low-sum grid for target 15, got sum %d (%v)", sum, g.Numbers)
	}
}

func TestHotCold_PoolMembership(t *testing.T) {
	tests := []struct {
		mode    PoolMode
		allowed map[int]bool
	}{
		{PoolHot, rangeSet(1, 10)},
		{PoolCold, rangeSet(40, 49)},
		{PoolMixed, unionSet(rangeSet(1, 5), rangeSet(45, 49))},
	}
	for _, tt := range tests {
		e := testEngine(t, 11)
		for i := 0; i < 50; i++ {
			g, err := e.Generate(model.StrategyHotCold, Params{Stats: statsRamp(), Mode: tt.mode, PoolSize: 10})
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.mode, err)
			}
			for _, n := range g.Numbers {
				if !tt.allowed[n] {
					t.Fatalf("%s: number %d outside the expected pool (%v)", tt.mode, n, g.Numbers)
				}
			}
		}
	}
}

func TestHotCold_PadsShortPool(t *testing.T) {
	stats := []model.SymbolStat{
		{ID: "7", Frequency: 0.4},
		{ID: "13", Frequency: 0.3},
		{ID: "44", Frequency: 0.1},
	}
	e := testEngine(t, 5)
	g, err := e.Generate(model.StrategyHotCold, Params{Stats: stats, Mode: PoolHot, PoolSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkGrid(t, g, model.FrenchLoto())
	if g.Fallback {
		t.Error("padding a short pool is not a fallback")
	}
}

func TestGenerate_FallbackObservable(t *testing.T) {
	tests := []struct {
		name     string
		strategy model.Strategy
		params   Params
	}{
		{"balanced sum without summary", model.StrategyBalancedSum, Params{}},
		{"hot cold without stats", model.StrategyHotCold, Params{}},
		{"hot cold with non-numeric stats", model.StrategyHotCold,
			Params{Stats: []model.SymbolStat{{ID: "X", Frequency: 0.5}}}},
	}
	for _, tt := range tests {
		e := testEngine(t, 9)
		g, err := e.Generate(tt.strategy, tt.params)
		if err != nil {
			t.Fatalf("%s: fallback must not error: %v", tt.name, err)
		}
		if !g.Fallback {
			t.Errorf("%s: expected the fallback flag", tt.name)
		}
		if g.Strategy != tt.strategy {
			t.Errorf("%s: expected requested strategy %s kept, got %s", tt.name, tt.strategy, g.Strategy)
		}
		checkGrid(t, g, model.FrenchLoto())
	}

	// Strategies without external inputs never fall back.
	e := testEngine(t, 9)
	for _, s := range []model.Strategy{model.StrategyRandom, model.StrategyAvoidCommon} {
		g, err := e.Generate(s, Params{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", s, err)
		}
		if g.Fallback {
			t.Errorf("%s: unexpected fallback", s)
		}
	}
}

func TestGenerate_UnknownStrategy(t *testing.T) {
	e := testEngine(t, 2)
	_, err := e.Generate(model.Strategy("FIBONACCI"), Params{})
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNewEngine_Validation(t *testing.T) {
	bad := model.Rules{BallMax: 3, Picks: 5, ChanceMax: 10, TicketPrice: 2.20}
	if _, err := NewEngine(bad, rand.New(rand.NewSource(1)), zerolog.Nop()); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error for picks > ball max, got %v", err)
	}
	if _, err := NewEngine(model.FrenchLoto(), nil, zerolog.Nop()); !errors.Is(err, model.ErrValidation) {
		t.Errorf("expected validation error for nil rng, got %v", err)
	}
}

func rangeSet(lo, hi int) map[int]bool {
	s := make(map[int]bool)
	for n := lo; n <= hi; n++ {
		s[n] = true
	}
	return s
}

func unionSet(a, b map[int]bool) map[int]bool {
	s := make(map[int]bool)
	for n := range a {
		s[n] = true
	}
	for n := range b {
		s[n] = true
	}
	return s
}
