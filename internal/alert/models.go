package alert

import "time"

// Alert types, named after the missed thing
const (
	TypeTask      = "task"
	TypeCheckin   = "checkin"
	TypeHydration = "hydration"
	TypeNutrition = "nutrition"
)

// Alert is an aggregated view over today's missed tasks and activity logs of
// a carer's linked patients. It carries the ID of the underlying row, so
// dismissing an alert deletes its source.
type Alert struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}
