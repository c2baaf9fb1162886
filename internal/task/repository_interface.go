package task

import "time"

// RepositoryInterface defines the contract for task data access
type RepositoryInterface interface {
	Create(t *Task) error
	GetByID(taskID string) (*Task, error)
	ListForPatient(patientID string) ([]Task, error)
	ListMissedForDay(patientIDs []string, day string) ([]Task, error)
	ListOverduePending(now time.Time) ([]Task, error)
	UpdateStatus(taskID, status string) error
	DeleteByID(taskID string) (bool, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
