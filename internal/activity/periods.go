package activity

import "time"

// PeriodWindow defines when a period of the day runs and, for hydration,
// how much the patient is expected to drink in it.
type PeriodWindow struct {
	Name      string `json:"name"`
	StartHour int    `json:"startHour"`
	EndHour   int    `json:"endHour"`
	AmountML  int    `json:"amountMl,omitempty"`
}

// Period schedules per category. Hours are local time, end exclusive.
var periodWindows = map[string][]PeriodWindow{
	CategoryCheckin: {
		{Name: "Morning", StartHour: 8, EndHour: 10},
		{Name: "Evening", StartHour: 18, EndHour: 20},
	},
	CategoryHydration: {
		{Name: "Morning", StartHour: 8, EndHour: 12, AmountML: 750},
		{Name: "Afternoon", StartHour: 12, EndHour: 18, AmountML: 1000},
		{Name: "Evening", StartHour: 18, EndHour: 22, AmountML: 250},
	},
	CategoryNutrition: {
		{Name: "Breakfast", StartHour: 7, EndHour: 10},
		{Name: "Lunch", StartHour: 12, EndHour: 15},
		{Name: "Dinner", StartHour: 19, EndHour: 21},
	},
}

// ValidCategory reports whether the category has a defined period schedule
func ValidCategory(category string) bool {
	_, ok := periodWindows[category]
	return ok
}

// PeriodsFor returns the period schedule of a category
func PeriodsFor(category string) ([]PeriodWindow, error) {
	windows, ok := periodWindows[category]
	if !ok {
		return nil, ErrUnknownCategory
	}
	return windows, nil
}

// FindPeriod resolves a period by name within a category
func FindPeriod(category, period string) (*PeriodWindow, error) {
	windows, err := PeriodsFor(category)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		if windows[i].Name == period {
			return &windows[i], nil
		}
	}
	return nil, ErrUnknownPeriod
}

// ElapsedPeriods returns the periods of the category whose window has fully
// passed at the given time. The detector derives missed logs from these.
func ElapsedPeriods(category string, now time.Time) ([]PeriodWindow, error) {
	windows, err := PeriodsFor(category)
	if err != nil {
		return nil, err
	}

	var elapsed []PeriodWindow
	for _, w := range windows {
		if now.Hour() >= w.EndHour {
			elapsed = append(elapsed, w)
		}
	}
	return elapsed, nil
}

// WindowTime returns the start of a period's window on the given day,
// used as the timestamp of derived missed logs.
func (w PeriodWindow) WindowTime(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), w.StartHour, 0, 0, 0, day.Location())
}
