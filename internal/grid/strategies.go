package grid

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"LotoSentinel/internal/model"
	"LotoSentinel/internal/pattern"
)

func (e *Engine) random() model.Grid {
	return e.finish(e.sample(e.fullPool(), e.rules.Picks), model.StrategyRandom)
}

// avoidCommon favors numbers above the calendar cutoff, which birthday
// players underuse. Three or four picks come from the uncommon range.
func (e *Engine) avoidCommon() model.Grid {
	var common, uncommon []int
	for n := 1; n <= e.rules.BallMax; n++ {
		if n > e.rules.CalendarCutoff {
			uncommon = append(uncommon, n)
		} else {
			common = append(common, n)
		}
	}
	want := 3 + e.rng.Intn(2)
	if want > e.rules.Picks {
		want = e.rules.Picks
	}
	if want > len(uncommon) {
		want = len(uncommon)
	}
	nums := e.sample(uncommon, want)
	nums = append(nums, e.sample(common, e.rules.Picks-len(nums))...)
	// Degenerate cutoffs can exhaust one side; fill from the whole range.
	if missing := e.rules.Picks - len(nums); missing > 0 {
		nums = append(nums, e.sampleExcluding(nums, missing)...)
	}
	return e.finish(nums, model.StrategyAvoidCommon)
}

// balancedSum keeps the best of 100 random candidates, scored by the
// distance of sum and spread to their historical means.
func (e *Engine) balancedSum(sum *pattern.Summary) model.Grid {
	pool := e.fullPool()
	var best []int
	bestCost := math.MaxFloat64
	for i := 0; i < balancedCandidates; i++ {
		cand := e.sample(pool, e.rules.Picks)
		if cost := balanceCost(cand, sum); cost < bestCost {
			bestCost = cost
			best = cand
		}
	}
	return e.finish(best, model.StrategyBalancedSum)
}

func balanceCost(nums []int, sum *pattern.Summary) float64 {
	total, lo, hi := 0, nums[0], nums[0]
	for _, n := range nums {
		total += n
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return math.Abs(float64(total)-sum.SumMean) +
		spreadWeight*math.Abs(float64(hi-lo)-sum.SpreadMean)
}

// hotCold samples from the frequency extremes: balls drawn the most,
// the least, or both. Short pools are padded from the whole range.
func (e *Engine) hotCold(p Params) model.Grid {
	ranked := e.numericStats(p.Stats)
	if len(ranked) == 0 {
		return e.fallback(model.StrategyHotCold, "no numeric symbols in stats")
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].stat.Frequency != ranked[j].stat.Frequency {
			return ranked[i].stat.Frequency > ranked[j].stat.Frequency
		}
		return ranked[i].number < ranked[j].number
	})

	size := p.PoolSize
	if size <= 0 {
		size = defaultPoolSize
	}
	mode := p.Mode
	if mode == "" {
		mode = PoolMixed
	}

	var pool []int
	switch mode {
	case PoolHot:
		pool = headNumbers(ranked, size)
	case PoolCold:
		pool = tailNumbers(ranked, size)
	case PoolMixed:
		pool = append(headNumbers(ranked, (size+1)/2), tailNumbers(ranked, size/2)...)
	default:
		return e.fallback(model.StrategyHotCold, fmt.Sprintf("unknown pool mode %q", mode))
	}

	nums := e.sample(dedupe(pool), e.rules.Picks)
	if missing := e.rules.Picks - len(nums); missing > 0 {
		nums = append(nums, e.sampleExcluding(nums, missing)...)
	}
	return e.finish(nums, model.StrategyHotCold)
}

// finish sorts the numbers, draws the chance and stamps the strategy.
func (e *Engine) finish(nums []int, s model.Strategy) model.Grid {
	sort.Ints(nums)
	return model.Grid{
		Numbers:  nums,
		Chance:   1 + e.rng.Intn(e.rules.ChanceMax),
		Strategy: s,
	}
}

func (e *Engine) fullPool() []int {
	pool := make([]int, e.rules.BallMax)
	for i := range pool {
		pool[i] = i + 1
	}
	return pool
}

// sample draws up to k unique values from the pool without replacement.
func (e *Engine) sample(pool []int, k int) []int {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	picked := make([]int, 0, k)
	for _, i := range e.rng.Perm(len(pool))[:k] {
		picked = append(picked, pool[i])
	}
	return picked
}

// sampleExcluding draws k in-range numbers not already taken.
func (e *Engine) sampleExcluding(taken []int, k int) []int {
	used := make(map[int]bool, len(taken))
	for _, n := range taken {
		used[n] = true
	}
	var pool []int
	for n := 1; n <= e.rules.BallMax; n++ {
		if !used[n] {
			pool = append(pool, n)
		}
	}
	return e.sample(pool, k)
}

type rankedStat struct {
	number int
	stat   model.SymbolStat
}

// numericStats keeps only stats whose id parses to an in-range ball.
func (e *Engine) numericStats(stats []model.SymbolStat) []rankedStat {
	out := make([]rankedStat, 0, len(stats))
	for _, st := range stats {
		n, err := strconv.Atoi(st.ID)
		if err != nil || n < 1 || n > e.rules.BallMax {
			continue
		}
		out = append(out, rankedStat{number: n, stat: st})
	}
	return out
}

func headNumbers(ranked []rankedStat, k int) []int {
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]int, 0, k)
	for _, r := range ranked[:k] {
		out = append(out, r.number)
	}
	return out
}

func tailNumbers(ranked []rankedStat, k int) []int {
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]int, 0, k)
	for _, r := range ranked[len(ranked)-k:] {
		out = append(out, r.number)
	}
	return out
}

func dedupe(nums []int) []int {
	seen := make(map[int]bool, len(nums))
	out := nums[:0]
	for _, n := range nums {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
