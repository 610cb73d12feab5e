package collector

import (
	"context"
	"time"

	"LotoSentinel/internal/model"
)

// Fetcher defines the interface for pulling game histories.
type Fetcher interface {
	FetchDraws(ctx context.Context, since time.Time) ([]model.Draw, error)
	FetchMatches(ctx context.Context, since time.Time) ([]model.Match, error)
	Name() string
}

// MockFetcher returns fixed data for development and testing.
type MockFetcher struct {
	DrawData  []model.Draw
	MatchData []model.Match
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDraws(_ context.Context, _ time.Time) ([]model.Draw, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.DrawData, nil
}

func (m *MockFetcher) FetchMatches(_ context.Context, _ time.Time) ([]model.Match, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.MatchData, nil
}
