package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"LotoSentinel/internal/model"
)

// CSVFetcher reads the dashboard's exported history files. Loto rows
// are "date;b1;b2;b3;b4;b5;chance;jackpot", football rows are
// "date;home;away;home_goals;away_goals", both with a header line.
type CSVFetcher struct {
	lotoPath     string
	footballPath string
}

func NewCSVFetcher(lotoPath, footballPath string) *CSVFetcher {
	return &CSVFetcher{lotoPath: lotoPath, footballPath: footballPath}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchDraws(_ context.Context, since time.Time) ([]model.Draw, error) {
	if f.lotoPath == "" {
		return nil, fmt.Errorf("%w: data.loto_csv is not set", model.ErrConfiguration)
	}
	var draws []model.Draw
	err := readRows(f.lotoPath, 8, func(line int, rec []string) error {
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return fmt.Errorf("%w: line %d: bad date %q", model.ErrValidation, line, rec[0])
		}
		numbers := make([]int, 5)
		for i := 0; i < 5; i++ {
			n, err := strconv.Atoi(rec[1+i])
			if err != nil {
				return fmt.Errorf("%w: line %d: bad number %q", model.ErrValidation, line, rec[1+i])
			}
			numbers[i] = n
		}
		chance, err := strconv.Atoi(rec[6])
		if err != nil {
			return fmt.Errorf("%w: line %d: bad chance %q", model.ErrValidation, line, rec[6])
		}
		jackpot, err := strconv.ParseFloat(rec[7], 64)
		if err != nil {
			return fmt.Errorf("%w: line %d: bad jackpot %q", model.ErrValidation, line, rec[7])
		}
		if !since.IsZero() && date.Before(since) {
			return nil
		}
		draws = append(draws, model.Draw{Date: date, Numbers: numbers, Chance: chance, Jackpot: jackpot})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draws, nil
}

func (f *CSVFetcher) FetchMatches(_ context.Context, since time.Time) ([]model.Match, error) {
	if f.footballPath == "" {
		return nil, fmt.Errorf("%w: data.football_csv is not set", model.ErrConfiguration)
	}
	var matches []model.Match
	err := readRows(f.footballPath, 5, func(line int, rec []string) error {
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return fmt.Errorf("%w: line %d: bad date %q", model.ErrValidation, line, rec[0])
		}
		homeGoals, err := strconv.Atoi(rec[3])
		if err != nil {
			return fmt.Errorf("%w: line %d: bad home goals %q", model.ErrValidation, line, rec[3])
		}
		awayGoals, err := strconv.Atoi(rec[4])
		if err != nil {
			return fmt.Errorf("%w: line %d: bad away goals %q", model.ErrValidation, line, rec[4])
		}
		if !since.IsZero() && date.Before(since) {
			return nil
		}
		matches = append(matches, model.Match{
			Date: date, Home: rec[1], Away: rec[2],
			HomeGoals: homeGoals, AwayGoals: awayGoals,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// readRows walks a semicolon-separated file, skipping the header line.
func readRows(path string, fields int, row func(line int, rec []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = ';'
	r.FieldsPerRecord = fields

	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", model.ErrValidation, path, line+1, err)
		}
		line++
		if line == 1 {
			continue // header
		}
		if err := row(line, rec); err != nil {
			return err
		}
	}
}
