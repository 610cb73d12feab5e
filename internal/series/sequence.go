package series

import (
	"strconv"

	"LotoSentinel/internal/model"
)

// Sequence is an ordered history viewed as per-symbol occurrences.
// Index 0 is the oldest record, Len()-1 the most recent.
type Sequence interface {
	Len() int
	Occurred(id string, i int) bool
}

// DrawSequence adapts Loto draw history. Symbol ids are the ball
// numbers in decimal ("1" .. "49").
type DrawSequence []model.Draw

func (s DrawSequence) Len() int { return len(s) }

func (s DrawSequence) Occurred(id string, i int) bool {
	n, err := strconv.Atoi(id)
	if err != nil {
		return false
	}
	return s[i].Contains(n)
}

// MatchSequence adapts finished matches. Symbol ids are market
// identifiers such as "1", "X" or "OVER_2.5".
type MatchSequence []model.Match

func (s MatchSequence) Len() int { return len(s) }

func (s MatchSequence) Occurred(id string, i int) bool {
	return s[i].Happened(id)
}

// BallUniverse lists every ball id for the given rules.
func BallUniverse(r model.Rules) []string {
	ids := make([]string, 0, r.BallMax)
	for n := 1; n <= r.BallMax; n++ {
		ids = append(ids, strconv.Itoa(n))
	}
	return ids
}

// Prefix restricts a sequence to its first n records. It keeps the
// walk-forward backtest from peeking past the analysis point.
func Prefix(seq Sequence, n int) Sequence {
	return prefixSeq{seq: seq, n: n}
}

type prefixSeq struct {
	seq Sequence
	n   int
}

func (p prefixSeq) Len() int { return p.n }

func (p prefixSeq) Occurred(id string, i int) bool { return p.seq.Occurred(id, i) }
