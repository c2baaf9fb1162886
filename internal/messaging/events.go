package messaging

import (
	"fmt"
	"time"
)

// Event routing keys as constants
const (
	// Care relationship events
	EventPatientLinked   = "link.created"
	EventPatientUnlinked = "link.removed"

	// User events
	EventUserRegistered = "user.registered"
	EventUserDeleted    = "user.deleted"

	// Alert events, consumed by the push-notification gateway
	EventAlertEmergency        = "alert.emergency"
	EventAlertMissedMedication = "alert.missed_medication"
	EventAlertMissedTask       = "alert.missed_task"
	EventAlertDismissed        = "alert.dismissed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// UserRegisteredEvent represents a user registration
type UserRegisteredEvent struct {
	BaseEvent
	Data UserRegisteredData `json:"data"`
}

type UserRegisteredData struct {
	UserID         string    `json:"user_id"`
	KeycloakUserID string    `json:"keycloak_user_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"` // ADMIN, CAREGIVER, FAMILY, OLDER_ADULT
	CreatedAt      time.Time `json:"created_at"`
}

// UserDeletedEvent represents a user deletion
type UserDeletedEvent struct {
	BaseEvent
	Data UserDeletedData `json:"data"`
}

type UserDeletedData struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	DeletedAt time.Time `json:"deleted_at"`
}

// PatientLinkedEvent represents a new care link between a patient and a carer
type PatientLinkedEvent struct {
	BaseEvent
	Data PatientLinkedData `json:"data"`
}

type PatientLinkedData struct {
	LinkID    string    `json:"link_id"`
	PatientID string    `json:"patient_id"`
	CarerID   string    `json:"carer_id"`
	Relation  string    `json:"relation"` // caregiver or family
	LinkedAt  time.Time `json:"linked_at"`
}

// PatientUnlinkedEvent represents a removed care link
type PatientUnlinkedEvent struct {
	BaseEvent
	Data PatientUnlinkedData `json:"data"`
}

type PatientUnlinkedData struct {
	LinkID     string    `json:"link_id"`
	PatientID  string    `json:"patient_id"`
	CarerID    string    `json:"carer_id"`
	Relation   string    `json:"relation"`
	UnlinkedAt time.Time `json:"unlinked_at"`
}

// AlertRaisedEvent represents an emergency or missed-dose/task alert being
// fanned out. One event per fan-out batch; the notification rows carry the
// per-recipient detail.
type AlertRaisedEvent struct {
	BaseEvent
	Data AlertRaisedData `json:"data"`
}

type AlertRaisedData struct {
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Message     string    `json:"message"`
	AlertType   string    `json:"alert_type"` // emergency, missed_medication, missed_task
	Recipients  []string  `json:"recipients"`
	RaisedAt    time.Time `json:"raised_at"`
}

// AlertDismissedEvent represents a caregiver or family member dismissing a
// displayed alert (which deletes the underlying log row).
type AlertDismissedEvent struct {
	BaseEvent
	Data AlertDismissedData `json:"data"`
}

type AlertDismissedData struct {
	SourceID    string    `json:"source_id"`
	DismissedBy string    `json:"dismissed_by"`
	DismissedAt time.Time `json:"dismissed_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     fmt.Sprintf("%d", time.Now().UnixNano()),
		Timestamp:   time.Now().UTC(), // Explicitly set to UTC
		ServiceName: "care-service",
	}
}
