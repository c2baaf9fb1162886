package carelink

import (
	"log"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// UserDirectory captures the user lookups the linker needs
type UserDirectory interface {
	GetByEmail(email string) (*users.User, error)
	GetByKeycloakID(keycloakUserID string) (*users.User, error)
}

type Service struct {
	repo  RepositoryInterface
	users UserDirectory
}

func NewService(repo RepositoryInterface, userDir UserDirectory) *Service {
	return &Service{
		repo:  repo,
		users: userDir,
	}
}

// CreateLink links the caller to the user behind the given email. A carer
// links a patient, a patient links a carer; the roles decide the direction
// and which join table is used.
func (s *Service) CreateLink(req CreateLinkRequest, principal *auth.Principal) (*Link, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requester, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	target, err := s.users.GetByEmail(req.Email)
	if err != nil {
		if err == users.ErrUserNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if target.ID == requester.ID {
		return nil, ErrSelfLink
	}

	link := &Link{}

	if relation, ok := relationForRole(requester.Role); ok {
		// Carer links a patient
		if target.Role != users.RoleOlderAdult {
			log.Printf("Link role mismatch: %s tried to link %s", requester.Role, target.Role)
			return nil, ErrRoleMismatch
		}
		link.CarerID = requester.ID
		link.PatientID = target.ID
		link.Relation = relation
	} else if requester.Role == users.RoleOlderAdult {
		// Patient links a carer
		relation, ok := relationForRole(target.Role)
		if !ok {
			log.Printf("Link role mismatch: %s tried to link %s", requester.Role, target.Role)
			return nil, ErrRoleMismatch
		}
		link.CarerID = target.ID
		link.PatientID = requester.ID
		link.Relation = relation
	} else {
		return nil, ErrRoleMismatch
	}

	if err := s.repo.Create(link); err != nil {
		return nil, err
	}

	return link, nil
}

// ListPatients returns the patients linked to the calling carer
func (s *Service) ListPatients(principal *auth.Principal) ([]LinkedUser, error) {
	requester, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	relation, ok := relationForRole(requester.Role)
	if !ok {
		return nil, ErrRoleMismatch
	}

	return s.repo.ListPatients(requester.ID, relation)
}

// ListMembers returns the caregivers and family linked to the calling patient
func (s *Service) ListMembers(principal *auth.Principal) ([]LinkedUser, error) {
	requester, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	if requester.Role != users.RoleOlderAdult {
		return nil, ErrRoleMismatch
	}

	return s.repo.ListMembers(requester.ID)
}

// Unlink removes a link the caller is part of
func (s *Service) Unlink(linkID string, principal *auth.Principal) error {
	requester, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return err
	}

	link, err := s.repo.GetByID(linkID)
	if err != nil {
		return err
	}

	if link.CarerID != requester.ID && link.PatientID != requester.ID {
		return ErrForbidden
	}

	return s.repo.Delete(link)
}
