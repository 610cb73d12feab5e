package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"LotoSentinel/internal/config"
	"LotoSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// APIFetcher pulls histories from the dashboard's results API.
type APIFetcher struct {
	lotoURL     string
	footballURL string
	client      *httpClient
}

func NewAPIFetcher(cfg config.DataConfig, log zerolog.Logger) *APIFetcher {
	return &APIFetcher{
		lotoURL:     cfg.LotoURL,
		footballURL: cfg.FootballURL,
		client:      newHTTPClient(cfg, log),
	}
}

func (f *APIFetcher) Name() string { return "results-api" }

// drawRow is the wire format of the Loto results endpoint.
type drawRow struct {
	Date    string  `json:"date"`
	Numbers []int   `json:"numbers"`
	Chance  int     `json:"chance"`
	Jackpot float64 `json:"jackpot"`
}

// matchRow is the wire format of the football results endpoint.
type matchRow struct {
	Date      string `json:"date"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
}

func (f *APIFetcher) FetchDraws(ctx context.Context, since time.Time) ([]model.Draw, error) {
	if f.lotoURL == "" {
		return nil, fmt.Errorf("%w: data.loto_url is not set", model.ErrConfiguration)
	}
	var rows []drawRow
	if err := f.client.getJSON(ctx, withSince(f.lotoURL, since), &rows); err != nil {
		return nil, fmt.Errorf("fetch draws: %w", err)
	}
	draws := make([]model.Draw, 0, len(rows))
	for i, r := range rows {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: draw row %d: bad date %q", model.ErrValidation, i, r.Date)
		}
		draws = append(draws, model.Draw{
			Date:    date,
			Numbers: r.Numbers,
			Chance:  r.Chance,
			Jackpot: r.Jackpot,
		})
	}
	return draws, nil
}

func (f *APIFetcher) FetchMatches(ctx context.Context, since time.Time) ([]model.Match, error) {
	if f.footballURL == "" {
		return nil, fmt.Errorf("%w: data.football_url is not set", model.ErrConfiguration)
	}
	var rows []matchRow
	if err := f.client.getJSON(ctx, withSince(f.footballURL, since), &rows); err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}
	matches := make([]model.Match, 0, len(rows))
	for i, r := range rows {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: match row %d: bad date %q", model.ErrValidation, i, r.Date)
		}
		matches = append(matches, model.Match{
			Date:      date,
			Home:      r.Home,
			Away:      r.Away,
			HomeGoals: r.HomeGoals,
			AwayGoals: r.AwayGoals,
		})
	}
	return matches, nil
}

// withSince appends the incremental-sync cursor to the endpoint.
func withSince(endpoint string, since time.Time) string {
	if since.IsZero() {
		return endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	q.Set("since", since.Format(dateLayout))
	u.RawQuery = q.Encode()
	return u.String()
}
