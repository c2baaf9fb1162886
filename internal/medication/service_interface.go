package medication

import "github.com/CareConnect-Health/care-service/internal/auth"

// ServiceInterface defines the contract for medication business logic
type ServiceInterface interface {
	Create(patientID string, req CreateMedicationRequest, principal *auth.Principal) (*Medication, error)
	ListForPatient(patientID string, principal *auth.Principal) ([]Medication, error)
	ListMine(principal *auth.Principal) ([]Medication, error)
	Schedule(date string, principal *auth.Principal) ([]ScheduleEntry, error)
	MarkTaken(medicationID string, req MarkTakenRequest, principal *auth.Principal) (*Medication, error)
}

var _ ServiceInterface = (*Service)(nil)
