package medication

import (
	"fmt"
	"time"
)

// GracePeriod is how long after a computed dose time the dose may still be
// taken before it counts as missed.
const GracePeriod = 2 * time.Hour

// ActiveOn reports whether the medication is prescribed on the given day.
// Dates are zero-padded so string comparison orders chronologically.
func (m *Medication) ActiveOn(day time.Time) bool {
	date := day.Format(DateLayout)
	return m.StartDate <= date && date <= m.EndDate
}

// DoseTimes computes the dose occurrences on the given day from first_hour
// and interval_hours. Doses pushed past midnight by the interval are dropped.
func (m *Medication) DoseTimes(day time.Time) ([]time.Time, error) {
	first, err := time.Parse(TimeLayout, m.FirstHour)
	if err != nil {
		return nil, fmt.Errorf("invalid first hour %q: %w", m.FirstHour, err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), first.Hour(), first.Minute(), 0, 0, day.Location())

	var times []time.Time
	for i := 0; i < m.TimesPerDay; i++ {
		doseTime := start.Add(time.Duration(i*m.IntervalHours) * time.Hour)
		if doseTime.Day() != day.Day() {
			break
		}
		times = append(times, doseTime)
	}
	return times, nil
}

// MissedDoseIndexes returns the indexes of today's doses whose grace period
// has passed without the dose being marked taken.
func (m *Medication) MissedDoseIndexes(now time.Time) ([]int, error) {
	if !m.ActiveOn(now) {
		return nil, nil
	}

	doseTimes, err := m.DoseTimes(now)
	if err != nil {
		return nil, err
	}

	date := now.Format(DateLayout)

	var missed []int
	for i, doseTime := range doseTimes {
		if !now.After(doseTime.Add(GracePeriod)) {
			continue
		}
		if m.TakenList.Taken(date, i) {
			continue
		}
		missed = append(missed, i)
	}
	return missed, nil
}

// DoseKey identifies a single dose occurrence, used for notification dedup
func DoseKey(medicationID, date string, doseIndex int) string {
	return fmt.Sprintf("%s_%s_%d", medicationID, date, doseIndex)
}
