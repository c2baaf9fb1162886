package medication

import "time"

// RepositoryInterface defines the contract for medication data access
type RepositoryInterface interface {
	Create(m *Medication) error
	GetByID(medicationID string) (*Medication, error)
	ListForPatient(patientID string) ([]Medication, error)
	ListActiveOn(day time.Time) ([]Medication, error)
	SetTakenList(medicationID string, takenList TakenList) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
