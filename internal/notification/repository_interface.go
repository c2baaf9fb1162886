package notification

// RepositoryInterface defines the contract for notification data access
type RepositoryInterface interface {
	FanOut(notifications []Notification) error
	ListForCarer(carerID string) ([]Notification, error)
	MarkRead(notificationID, carerID string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
