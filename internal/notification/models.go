package notification

import "time"

// Notification types
const (
	TypeEmergency        = "emergency"
	TypeMissedMedication = "missed_medication"
	TypeMissedTask       = "missed_task"
)

// Notification is one delivered alert row for one recipient
type Notification struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PatientName string    `json:"patientName"`
	CaregiverID string    `json:"caregiverId"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}
