package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"LotoSentinel/internal/model"
)

const (
	keyLoto     = "history:loto"
	keyFootball = "history:football"
)

// Collector fetches game histories through a cache and validates them
// before they reach the engines. The engines trust their input; bad
// upstream rows stop here.
type Collector struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	rules   model.Rules
	log     zerolog.Logger
}

func New(fetcher Fetcher, cache Cache, ttl time.Duration, rules model.Rules, log zerolog.Logger) *Collector {
	return &Collector{fetcher: fetcher, cache: cache, ttl: ttl, rules: rules, log: log}
}

// Draws returns the full Loto history, oldest first.
func (c *Collector) Draws(ctx context.Context) ([]model.Draw, error) {
	if c.cache != nil {
		var cached []model.Draw
		err := c.cache.Get(ctx, keyLoto, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn().Err(err).Msg("loto cache read failed")
		}
	}

	draws, err := c.fetcher.FetchDraws(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetch draws via %s: %w", c.fetcher.Name(), err)
	}
	if err := ValidateDraws(draws, c.rules); err != nil {
		return nil, err
	}
	c.store(ctx, keyLoto, draws)
	return draws, nil
}

// Matches returns the full football history, oldest first.
func (c *Collector) Matches(ctx context.Context) ([]model.Match, error) {
	if c.cache != nil {
		var cached []model.Match
		err := c.cache.Get(ctx, keyFootball, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn().Err(err).Msg("football cache read failed")
		}
	}

	matches, err := c.fetcher.FetchMatches(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetch matches via %s: %w", c.fetcher.Name(), err)
	}
	if err := ValidateMatches(matches); err != nil {
		return nil, err
	}
	c.store(ctx, keyFootball, matches)
	return matches, nil
}

// Invalidate drops cached histories so the next read hits upstream.
func (c *Collector) Invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, keyLoto, keyFootball); err != nil {
		c.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

func (c *Collector) store(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// ValidateDraws normalizes number order and rejects rows that break
// the game rules or the history's date order.
func ValidateDraws(draws []model.Draw, rules model.Rules) error {
	var prev time.Time
	for i := range draws {
		d := &draws[i]
		if len(d.Numbers) != rules.Picks {
			return fmt.Errorf("%w: draw %d (%s): expected %d numbers, got %d",
				model.ErrValidation, i, d.Date.Format(dateLayout), rules.Picks, len(d.Numbers))
		}
		sort.Ints(d.Numbers)
		for j, n := range d.Numbers {
			if n < 1 || n > rules.BallMax {
				return fmt.Errorf("%w: draw %d (%s): number %d outside [1, %d]",
					model.ErrValidation, i, d.Date.Format(dateLayout), n, rules.BallMax)
			}
			if j > 0 && n == d.Numbers[j-1] {
				return fmt.Errorf("%w: draw %d (%s): duplicate number %d",
					model.ErrValidation, i, d.Date.Format(dateLayout), n)
			}
		}
		if d.Chance < 1 || d.Chance > rules.ChanceMax {
			return fmt.Errorf("%w: draw %d (%s): chance %d outside [1, %d]",
				model.ErrValidation, i, d.Date.Format(dateLayout), d.Chance, rules.ChanceMax)
		}
		if d.Jackpot < 0 {
			return fmt.Errorf("%w: draw %d (%s): negative jackpot",
				model.ErrValidation, i, d.Date.Format(dateLayout))
		}
		if d.Date.Before(prev) {
			return fmt.Errorf("%w: draw %d (%s): dates must not go backwards",
				model.ErrValidation, i, d.Date.Format(dateLayout))
		}
		prev = d.Date
	}
	return nil
}

// ValidateMatches rejects rows with impossible scores or broken order.
func ValidateMatches(matches []model.Match) error {
	var prev time.Time
	for i, m := range matches {
		if m.Home == "" || m.Away == "" {
			return fmt.Errorf("%w: match %d (%s): missing team name",
				model.ErrValidation, i, m.Date.Format(dateLayout))
		}
		if m.HomeGoals < 0 || m.AwayGoals < 0 {
			return fmt.Errorf("%w: match %d (%s vs %s): negative score",
				model.ErrValidation, i, m.Home, m.Away)
		}
		if m.Date.Before(prev) {
			return fmt.Errorf("%w: match %d (%s): dates must not go backwards",
				model.ErrValidation, i, m.Date.Format(dateLayout))
		}
		prev = m.Date
	}
	return nil
}
