package task

import "github.com/CareConnect-Health/care-service/internal/auth"

// ServiceInterface defines the contract for task business logic
type ServiceInterface interface {
	Create(patientID string, req CreateTaskRequest, principal *auth.Principal) (*Task, error)
	ListForPatient(patientID string, principal *auth.Principal) ([]Task, error)
	ListMine(principal *auth.Principal) ([]Task, error)
	UpdateStatus(taskID string, req UpdateStatusRequest, principal *auth.Principal) (*Task, error)
	Delete(taskID string, principal *auth.Principal) error
}

var _ ServiceInterface = (*Service)(nil)
