package activity

import (
	"testing"
	"time"
)

func TestFindPeriod_HydrationAmounts(t *testing.T) {
	tests := []struct {
		period   string
		amountML int
	}{
		{"Morning", 750},
		{"Afternoon", 1000},
		{"Evening", 250},
	}

	for _, tt := range tests {
		window, err := FindPeriod(CategoryHydration, tt.period)
		if err != nil {
			t.Fatalf("FindPeriod(%s): %v", tt.period, err)
		}
		if window.AmountML != tt.amountML {
			t.Errorf("Expected %s amount %dml, got %dml", tt.period, tt.amountML, window.AmountML)
		}
	}
}

func TestFindPeriod_UnknownPeriod(t *testing.T) {
	if _, err := FindPeriod(CategoryCheckin, "Afternoon"); err != ErrUnknownPeriod {
		t.Errorf("Expected ErrUnknownPeriod for check-in Afternoon, got: %v", err)
	}
}

func TestFindPeriod_UnknownCategory(t *testing.T) {
	if _, err := FindPeriod("sleep", "Morning"); err != ErrUnknownCategory {
		t.Errorf("Expected ErrUnknownCategory, got: %v", err)
	}
}

func TestElapsedPeriods_Nutrition(t *testing.T) {
	// 16:00: breakfast (ends 10) and lunch (ends 15) have passed, dinner has not
	now := time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC)

	elapsed, err := ElapsedPeriods(CategoryNutrition, now)
	if err != nil {
		t.Fatalf("ElapsedPeriods: %v", err)
	}

	if len(elapsed) != 2 {
		t.Fatalf("Expected 2 elapsed periods, got %d", len(elapsed))
	}
	if elapsed[0].Name != "Breakfast" || elapsed[1].Name != "Lunch" {
		t.Errorf("Unexpected elapsed periods: %+v", elapsed)
	}
}

func TestElapsedPeriods_EarlyMorningNoneElapsed(t *testing.T) {
	now := time.Date(2025, 6, 1, 6, 30, 0, 0, time.UTC)

	elapsed, err := ElapsedPeriods(CategoryCheckin, now)
	if err != nil {
		t.Fatalf("ElapsedPeriods: %v", err)
	}
	if len(elapsed) != 0 {
		t.Errorf("Expected no elapsed periods at 06:30, got: %+v", elapsed)
	}
}

func TestWindowTime(t *testing.T) {
	day := time.Date(2025, 6, 1, 16, 45, 0, 0, time.UTC)
	window := PeriodWindow{Name: "Morning", StartHour: 8, EndHour: 12}

	got := window.WindowTime(day)
	want := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
