package medication

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Stored date and time formats
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TakenList records which computed doses were taken, keyed by date then by
// dose index. Stored as JSONB; dose indexes are string keys.
type TakenList map[string]map[string]bool

// Value implements driver.Valuer for JSONB storage
func (tl TakenList) Value() (driver.Value, error) {
	if tl == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(tl)
}

// Scan implements sql.Scanner for JSONB retrieval
func (tl *TakenList) Scan(src interface{}) error {
	if src == nil {
		*tl = TakenList{}
		return nil
	}

	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan taken list from %T", src)
	}
	return json.Unmarshal(data, tl)
}

// Taken reports whether the dose at the given index was taken on the given
// date
func (tl TakenList) Taken(date string, doseIndex int) bool {
	day, ok := tl[date]
	if !ok {
		return false
	}
	return day[fmt.Sprintf("%d", doseIndex)]
}

// MarkTaken records the dose at the given index as taken on the given date
func (tl TakenList) MarkTaken(date string, doseIndex int) {
	day, ok := tl[date]
	if !ok {
		day = map[string]bool{}
		tl[date] = day
	}
	day[fmt.Sprintf("%d", doseIndex)] = true
}

// Medication represents a recurring prescription for a patient. Individual
// dose occurrences are computed from first_hour and interval_hours, never
// stored.
type Medication struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patientId"`
	Name          string    `json:"name"`
	Dosage        string    `json:"dosage"`
	Description   string    `json:"description,omitempty"`
	StartDate     string    `json:"startDate"` // YYYY-MM-DD
	EndDate       string    `json:"endDate"`   // YYYY-MM-DD
	FirstHour     string    `json:"firstHour"` // HH:MM
	IntervalHours int       `json:"intervalHours"`
	TimesPerDay   int       `json:"timesPerDay"`
	TakenList     TakenList `json:"takenList"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateMedicationRequest creates a medication for a patient
type CreateMedicationRequest struct {
	Name          string `json:"name"`
	Dosage        string `json:"dosage"`
	Description   string `json:"description,omitempty"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	FirstHour     string `json:"firstHour"`
	IntervalHours int    `json:"intervalHours"`
	TimesPerDay   int    `json:"timesPerDay"`
}

// Validate validates the create medication request
func (r *CreateMedicationRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if r.Dosage == "" {
		return ErrMissingDosage
	}

	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return ErrInvalidDate
	}
	if end.Before(start) {
		return ErrInvalidDateRange
	}

	if _, err := time.Parse(TimeLayout, r.FirstHour); err != nil {
		return ErrInvalidFirstHour
	}
	if r.IntervalHours <= 0 {
		return ErrInvalidInterval
	}
	if r.TimesPerDay <= 0 {
		return ErrInvalidTimesPerDay
	}
	return nil
}

// MarkTakenRequest marks a computed dose as taken
type MarkTakenRequest struct {
	Date      string `json:"date"`
	DoseIndex int    `json:"doseIndex"`
}

// Validate validates the mark taken request
func (r *MarkTakenRequest) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	if r.DoseIndex < 0 {
		return ErrInvalidDoseIndex
	}
	return nil
}

// ScheduleEntry is one computed dose occurrence on a given day
type ScheduleEntry struct {
	MedicationID string `json:"medicationId"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	DoseIndex    int    `json:"doseIndex"`
	Time         string `json:"time"` // HH:MM
	Taken        bool   `json:"taken"`
}
