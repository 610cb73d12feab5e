package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"LotoSentinel/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCSVFetchDraws(t *testing.T) {
	path := writeFile(t, "loto.csv",
		"date;b1;b2;b3;b4;b5;chance;jackpot\n"+
			"2025-01-04;3;11;22;33;44;5;2000000\n"+
			"2025-01-06;1;2;3;4;49;10;4000000\n")
	f := NewCSVFetcher(path, "")

	draws, err := f.FetchDraws(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(draws))
	}
	first := draws[0]
	if first.Date.Format(dateLayout) != "2025-01-04" {
		t.Errorf("bad date %v", first.Date)
	}
	if first.Chance != 5 || first.Jackpot != 2000000 {
		t.Errorf("bad row: %+v", first)
	}
	want := []int{3, 11, 22, 33, 44}
	for i, n := range first.Numbers {
		if n != want[i] {
			t.Fatalf("expected numbers %v, got %v", want, first.Numbers)
		}
	}
}

func TestCSVFetchDraws_SinceFilter(t *testing.T) {
	path := writeFile(t, "loto.csv",
		"date;b1;b2;b3;b4;b5;chance;jackpot\n"+
			"2025-01-04;3;11;22;33;44;5;2000000\n"+
			"2025-01-06;1;2;3;4;49;10;4000000\n")
	f := NewCSVFetcher(path, "")

	since := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	draws, err := f.FetchDraws(context.Background(), since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draws) != 1 || draws[0].Chance != 10 {
		t.Errorf("expected only the later draw, got %+v", draws)
	}
}

func TestCSVFetchDraws_BadRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad date", "h\nnot-a-date;1;2;3;4;5;6;0\n"},
		{"bad number", "h\n2025-01-04;1;x;3;4;5;6;0\n"},
		{"bad chance", "h\n2025-01-04;1;2;3;4;5;x;0\n"},
		{"bad jackpot", "h\n2025-01-04;1;2;3;4;5;6;x\n"},
		{"short row", "h\n2025-01-04;1;2;3\n"},
	}
	for _, tt := range tests {
		path := writeFile(t, "loto.csv", tt.content)
		f := NewCSVFetcher(path, "")
		if _, err := f.FetchDraws(context.Background(), time.Time{}); !errors.Is(err, model.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tt.name, err)
		}
	}
}

func TestCSVFetchDraws_PathErrors(t *testing.T) {
	f := NewCSVFetcher("", "")
	if _, err := f.FetchDraws(context.Background(), time.Time{}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected configuration error for empty path, got %v", err)
	}

	f = NewCSVFetcher(filepath.Join(t.TempDir(), "missing.csv"), "")
	if _, err := f.FetchDraws(context.Background(), time.Time{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCSVFetchMatches(t *testing.T) {
	path := writeFile(t, "football.csv",
		"date;home;away;hg;ag\n"+
			"2025-02-01;PSG;OM;3;1\n"+
			"2025-02-08;OL;LOSC;0;0\n")
	f := NewCSVFetcher("", path)

	matches, err := f.FetchMatches(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Home != "PSG" || matches[0].Away != "OM" || matches[0].HomeGoals != 3 || matches[0].AwayGoals != 1 {
		t.Errorf("bad row: %+v", matches[0])
	}
	if !matches[1].Happened(model.MarketUnder25) {
		t.Errorf("0-0 should settle under 2.5")
	}
}
