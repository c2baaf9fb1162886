package task

import (
	"time"
)

// Task statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusMissed    = "missed"
)

// Stored date and time formats. Zero-padded so string comparison orders
// chronologically.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Task represents a scheduled task for a patient
type Task struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DueAt combines the task's date and time in the given location
func (t *Task) DueAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, t.Date+" "+t.Time, loc)
}

// CreateTaskRequest creates a task for a patient
type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Validate validates the create task request
func (r *CreateTaskRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(TimeLayout, r.Time); err != nil {
		return ErrInvalidTime
	}
	return nil
}

// UpdateStatusRequest transitions a task's status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
