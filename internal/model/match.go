package model

import "time"

// Market identifiers for the football predictions module.
const (
	MarketHomeWin = "1"
	MarketDraw    = "X"
	MarketAwayWin = "2"
	MarketOver25  = "OVER_2.5"
	MarketUnder25 = "UNDER_2.5"
	MarketBTTSYes = "BTTS_YES"
	MarketBTTSNo  = "BTTS_NO"
)

// Markets returns every tracked market in report order.
func Markets() []string {
	return []string{
		MarketHomeWin, MarketDraw, MarketAwayWin,
		MarketOver25, MarketUnder25,
		MarketBTTSYes, MarketBTTSNo,
	}
}

// Match is a finished football match.
type Match struct {
	Date      time.Time
	Home      string
	Away      string
	HomeGoals int
	AwayGoals int
}

// Happened reports whether the given market realized in this match.
// Unknown markets never realize.
func (m Match) Happened(market string) bool {
	total := m.HomeGoals + m.AwayGoals
	switch market {
	case MarketHomeWin:
		return m.HomeGoals > m.AwayGoals
	case MarketDraw:
		return m.HomeGoals == m.AwayGoals
	case MarketAwayWin:
		return m.HomeGoals < m.AwayGoals
	case MarketOver25:
		return total >= 3
	case MarketUnder25:
		return total <= 2
	case MarketBTTSYes:
		return m.HomeGoals > 0 && m.AwayGoals > 0
	case MarketBTTSNo:
		return m.HomeGoals == 0 || m.AwayGoals == 0
	}
	return false
}
