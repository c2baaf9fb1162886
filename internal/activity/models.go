package activity

import "time"

// Log categories, each backed by its own table
const (
	CategoryCheckin   = "checkin"
	CategoryHydration = "hydration"
	CategoryNutrition = "nutrition"
)

// Log statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusMissed    = "missed"
)

// Log represents one activity log row. AmountML is only set for hydration.
type Log struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	Period    string    `json:"period"`
	AmountML  int       `json:"amountMl,omitempty"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfirmRequest confirms one period of the day for the calling patient
type ConfirmRequest struct {
	Period string `json:"period"`
}

// DayStats holds confirmed/total counts for one category over a date range
type DayStats struct {
	Category  string `json:"category"`
	Confirmed int    `json:"confirmed"`
	Total     int    `json:"total"`
}

// PatientStats is the stats document for one patient
type PatientStats struct {
	PatientID string     `json:"patientId"`
	Daily     []DayStats `json:"daily"`
	Monthly   []DayStats `json:"monthly"`
}
