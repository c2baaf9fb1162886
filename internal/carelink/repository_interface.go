package carelink

// RepositoryInterface defines the contract for care link data access
type RepositoryInterface interface {
	Create(link *Link) error
	ListPatients(carerID, relation string) ([]LinkedUser, error)
	ListMembers(patientID string) ([]LinkedUser, error)
	PatientIDs(carerID, relation string) ([]string, error)
	CarerIDs(patientID string) ([]string, error)
	GetByID(linkID string) (*Link, error)
	Delete(link *Link) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
