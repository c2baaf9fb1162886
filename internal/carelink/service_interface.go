package carelink

import "github.com/CareConnect-Health/care-service/internal/auth"

// ServiceInterface defines the contract for care link operations
type ServiceInterface interface {
	CreateLink(req CreateLinkRequest, principal *auth.Principal) (*Link, error)
	ListPatients(principal *auth.Principal) ([]LinkedUser, error)
	ListMembers(principal *auth.Principal) ([]LinkedUser, error)
	Unlink(linkID string, principal *auth.Principal) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
