package series

import (
	"errors"
	"math"
	"testing"

	"LotoSentinel/internal/model"
)

func TestClassify_AllBoundaries(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		value float64
		tier  model.Tier
	}{
		{3.0, model.TierHigh},
		{2.5, model.TierHigh},
		{2.49, model.TierAlert},
		{2.1, model.TierAlert},
		{2.0, model.TierAlert},
		{1.99, model.TierNone},
		{1.5, model.TierNone},
		{0.0, model.TierNone},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.value); got != tt.tier {
			t.Errorf("value %.2f: expected %s, got %s", tt.value, tt.tier, got)
		}
	}
}

func TestClassify_ThresholdCrossing(t *testing.T) {
	// A ball with frequency 0.35 crosses the alert boundary on its 6th
	// missed draw and the high boundary on its 8th.
	th := DefaultThresholds()
	tests := []struct {
		streak int
		tier   model.Tier
	}{
		{5, model.TierNone},  // 1.75
		{6, model.TierAlert}, // 2.10
		{7, model.TierAlert}, // 2.45
		{8, model.TierHigh},  // 2.80
	}
	for _, tt := range tests {
		v := Value(0.35, tt.streak)
		if got := th.Classify(v); got != tt.tier {
			t.Errorf("streak %d (value %.2f): expected %s, got %s", tt.streak, v, tt.tier, got)
		}
	}
}

func TestValue_Identity(t *testing.T) {
	if v := Value(0.3, 5); math.Abs(v-1.5) > 1e-12 {
		t.Errorf("expected 1.5, got %v", v)
	}
	if v := Value(0, 120); v != 0 {
		t.Errorf("zero frequency must give zero value, got %v", v)
	}
	if v := Value(0.5, 0); v != 0 {
		t.Errorf("zero streak must give zero value, got %v", v)
	}
}

func TestScore_OrderAndTiers(t *testing.T) {
	stats := []model.SymbolStat{
		{ID: "12", Frequency: 0.2, Streak: 5, Value: 1.0},
		{ID: "7", Frequency: 0.35, Streak: 8, Value: 2.8},
		{ID: "31", Frequency: 0.35, Streak: 6, Value: 2.1},
		{ID: "3", Frequency: 0.25, Streak: 4, Value: 1.0},
	}
	scored := Score(stats, DefaultThresholds())

	wantOrder := []string{"7", "31", "12", "3"}
	for i, id := range wantOrder {
		if scored[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, scored[i].ID)
		}
	}
	if scored[0].Tier != model.TierHigh {
		t.Errorf("expected HIGH for value 2.8, got %s", scored[0].Tier)
	}
	if scored[1].Tier != model.TierAlert {
		t.Errorf("expected ALERT for value 2.1, got %s", scored[1].Tier)
	}
	if scored[2].Tier != model.TierNone || scored[3].Tier != model.TierNone {
		t.Error("values below the alert boundary must stay NONE")
	}

	// Input slice untouched.
	if stats[0].Tier != "" {
		t.Error("Score must not mutate its input")
	}
}

func TestOpportunities_FiltersNone(t *testing.T) {
	stats := []model.SymbolStat{
		{ID: "7", Value: 2.8},
		{ID: "12", Value: 1.0},
		{ID: "31", Value: 2.1},
	}
	opps := Opportunities(stats, DefaultThresholds())
	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(opps))
	}
	if opps[0].ID != "7" || opps[1].ID != "31" {
		t.Errorf("expected [7 31], got [%s %s]", opps[0].ID, opps[1].ID)
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name string
		th   Thresholds
		ok   bool
	}{
		{"defaults", DefaultThresholds(), true},
		{"equal boundaries", Thresholds{High: 2.0, Alert: 2.0}, true},
		{"inverted", Thresholds{High: 1.0, Alert: 2.0}, false},
		{"zero alert", Thresholds{High: 2.5, Alert: 0}, false},
		{"negative", Thresholds{High: -1, Alert: -2}, false},
	}
	for _, tt := range tests {
		err := tt.th.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, model.ErrConfiguration) {
			t.Errorf("%s: expected configuration error, got %v", tt.name, err)
		}
	}
}
