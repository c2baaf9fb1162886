package carelink

import (
	"time"

	"github.com/CareConnect-Health/care-service/internal/users"
)

// Relations between a patient and the person caring for them. The relation
// decides which join table a link lives in.
const (
	RelationCaregiver = "caregiver"
	RelationFamily    = "family"
)

// Link represents a care relationship between a patient and a carer
type Link struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	CarerID   string    `json:"carerId"`
	Relation  string    `json:"relation"`
	CreatedAt time.Time `json:"createdAt"`
}

// LinkedUser is a link joined with the user on the other side of it
type LinkedUser struct {
	LinkID   string     `json:"linkId"`
	Relation string     `json:"relation"`
	LinkedAt time.Time  `json:"linkedAt"`
	User     users.User `json:"user"`
}

// CreateLinkRequest links the caller to the user with the given email.
// The direction follows from the two roles involved.
type CreateLinkRequest struct {
	Email string `json:"email"`
}

// Validate validates the create link request
func (r *CreateLinkRequest) Validate() error {
	if r.Email == "" {
		return ErrMissingEmail
	}
	return nil
}

// relationForRole maps a carer role to the join table relation
func relationForRole(role string) (string, bool) {
	switch role {
	case users.RoleCaregiver:
		return RelationCaregiver, true
	case users.RoleFamily:
		return RelationFamily, true
	}
	return "", false
}
