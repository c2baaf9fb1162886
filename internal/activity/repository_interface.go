package activity

import "time"

// RepositoryInterface defines the contract for activity log data access
type RepositoryInterface interface {
	Insert(category string, entry *Log) error
	HasStatusForDay(category, patientID, period, status string, t time.Time) (bool, error)
	ListForDay(category, patientID string, t time.Time) ([]Log, error)
	ListMissedForDay(category string, patientIDs []string, t time.Time) ([]Log, error)
	InsertMissedIfAbsent(category, patientID, period string, ts time.Time) (bool, error)
	DeleteByID(category, id string) (bool, error)
	CountsBetween(category, patientID string, from, to time.Time) (int, int, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
