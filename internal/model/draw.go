package model

import "time"

// Draw is a single Loto draw result. Numbers are sorted ascending.
type Draw struct {
	Date    time.Time
	Numbers []int
	Chance  int
	Jackpot float64
}

// Contains reports whether n is among the drawn main numbers.
func (d Draw) Contains(n int) bool {
	for _, v := range d.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// Sum returns the sum of the drawn main numbers.
func (d Draw) Sum() int {
	s := 0
	for _, v := range d.Numbers {
		s += v
	}
	return s
}

// Spread returns the gap between the highest and lowest main number.
func (d Draw) Spread() int {
	if len(d.Numbers) == 0 {
		return 0
	}
	lo, hi := d.Numbers[0], d.Numbers[0]
	for _, v := range d.Numbers[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}
