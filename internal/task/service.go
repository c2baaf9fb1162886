package task

import (
	"log"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/carelink"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// UserDirectory captures the user lookups the service needs
type UserDirectory interface {
	GetByKeycloakID(keycloakUserID string) (*users.User, error)
}

// LinkDirectory captures the link lookups used for authorization
type LinkDirectory interface {
	PatientIDs(carerID, relation string) ([]string, error)
}

type Service struct {
	repo  RepositoryInterface
	users UserDirectory
	links LinkDirectory
}

func NewService(repo RepositoryInterface, userDir UserDirectory, links LinkDirectory) *Service {
	return &Service{
		repo:  repo,
		users: userDir,
		links: links,
	}
}

func (s *Service) isLinked(viewer *users.User, patientID string) (bool, error) {
	var relation string
	switch viewer.Role {
	case users.RoleCaregiver:
		relation = carelink.RelationCaregiver
	case users.RoleFamily:
		relation = carelink.RelationFamily
	default:
		return false, nil
	}

	ids, err := s.links.PatientIDs(viewer.ID, relation)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == patientID {
			return true, nil
		}
	}
	return false, nil
}

// Create schedules a task for a patient. Only linked caregivers and family
// members may create tasks.
func (s *Service) Create(patientID string, req CreateTaskRequest, principal *auth.Principal) (*Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	creator, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	linked, err := s.isLinked(creator, patientID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, ErrNotLinked
	}

	t := &Task{
		PatientID:   patientID,
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		CreatedBy:   creator.ID,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, err
	}

	return t, nil
}

// ListForPatient returns a patient's tasks to the patient themselves or a
// linked carer.
func (s *Service) ListForPatient(patientID string, principal *auth.Principal) ([]Task, error) {
	viewer, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	if viewer.ID != patientID {
		linked, err := s.isLinked(viewer, patientID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, ErrNotLinked
		}
	}

	return s.repo.ListForPatient(patientID)
}

// ListMine returns the calling patient's own tasks
func (s *Service) ListMine(principal *auth.Principal) ([]Task, error) {
	viewer, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListForPatient(viewer.ID)
}

// UpdateStatus applies a status transition. Patients complete their own
// pending tasks; no other client-driven transition exists.
func (s *Service) UpdateStatus(taskID string, req UpdateStatusRequest, principal *auth.Principal) (*Task, error) {
	if req.Status != StatusCompleted {
		return nil, ErrInvalidStatus
	}

	caller, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return nil, err
	}

	if t.PatientID != caller.ID {
		return nil, ErrForbidden
	}
	if t.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(taskID, StatusCompleted); err != nil {
		return nil, err
	}

	t.Status = StatusCompleted

	log.Printf("Patient %s completed task '%s'", caller.ID, t.Name)

	return t, nil
}

// Delete removes a task. Allowed for its creator and for carers linked to
// the patient.
func (s *Service) Delete(taskID string, principal *auth.Principal) error {
	caller, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return err
	}

	t, err := s.repo.GetByID(taskID)
	if err != nil {
		return err
	}

	if t.CreatedBy != caller.ID {
		linked, err := s.isLinked(caller, t.PatientID)
		if err != nil {
			return err
		}
		if !linked {
			return ErrForbidden
		}
	}

	deleted, err := s.repo.DeleteByID(taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}
