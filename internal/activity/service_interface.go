package activity

import "github.com/CareConnect-Health/care-service/internal/auth"

// ServiceInterface defines the contract for activity log operations
type ServiceInterface interface {
	Confirm(category string, req ConfirmRequest, principal *auth.Principal) (*Log, error)
	Today(category string, principal *auth.Principal) ([]Log, error)
	Stats(patientID string, principal *auth.Principal) (*PatientStats, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
