package activity

import (
	"log"
	"time"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/carelink"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// UserDirectory captures the user lookups the service needs
type UserDirectory interface {
	GetByKeycloakID(keycloakUserID string) (*users.User, error)
}

// LinkDirectory captures the link lookups used for viewer authorization
type LinkDirectory interface {
	PatientIDs(carerID, relation string) ([]string, error)
}

type Service struct {
	repo  RepositoryInterface
	users UserDirectory
	links LinkDirectory
	now   func() time.Time
}

func NewService(repo RepositoryInterface, userDir UserDirectory, links LinkDirectory) *Service {
	return &Service{
		repo:  repo,
		users: userDir,
		links: links,
		now:   time.Now,
	}
}

// Confirm writes a confirmed log for one period of today. A period can only
// be confirmed once per day.
func (s *Service) Confirm(category string, req ConfirmRequest, principal *auth.Principal) (*Log, error) {
	user, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != users.RoleOlderAdult {
		return nil, ErrNotAPatient
	}

	window, err := FindPeriod(category, req.Period)
	if err != nil {
		return nil, err
	}

	now := s.now()

	confirmed, err := s.repo.HasStatusForDay(category, user.ID, window.Name, StatusConfirmed, now)
	if err != nil {
		return nil, err
	}
	if confirmed {
		return nil, ErrAlreadyConfirmed
	}

	entry := &Log{
		PatientID: user.ID,
		Period:    window.Name,
		AmountML:  window.AmountML,
		Status:    StatusConfirmed,
		Timestamp: now,
	}

	if err := s.repo.Insert(category, entry); err != nil {
		return nil, err
	}

	log.Printf("Patient %s confirmed %s %s", user.ID, window.Name, category)

	return entry, nil
}

// Today returns the calling patient's logs of today for one category
func (s *Service) Today(category string, principal *auth.Principal) ([]Log, error) {
	if !ValidCategory(category) {
		return nil, ErrUnknownCategory
	}

	user, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != users.RoleOlderAdult {
		return nil, ErrNotAPatient
	}

	return s.repo.ListForDay(category, user.ID, s.now())
}

// Stats returns daily and month-to-date confirmed/total counts per category
// for a patient. Only the patient themselves and their linked carers may
// look at them.
func (s *Service) Stats(patientID string, principal *auth.Principal) (*PatientStats, error) {
	viewer, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	if viewer.ID != patientID {
		if err := s.checkLinked(viewer, patientID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := dayStart.AddDate(0, 0, 1)

	stats := &PatientStats{PatientID: patientID}

	for _, category := range []string{CategoryCheckin, CategoryHydration, CategoryNutrition} {
		confirmed, total, err := s.repo.CountsBetween(category, patientID, dayStart, end)
		if err != nil {
			return nil, err
		}
		stats.Daily = append(stats.Daily, DayStats{Category: category, Confirmed: confirmed, Total: total})

		confirmed, total, err = s.repo.CountsBetween(category, patientID, monthStart, end)
		if err != nil {
			return nil, err
		}
		stats.Monthly = append(stats.Monthly, DayStats{Category: category, Confirmed: confirmed, Total: total})
	}

	return stats, nil
}

func (s *Service) checkLinked(viewer *users.User, patientID string) error {
	var relation string
	switch viewer.Role {
	case users.RoleCaregiver:
		relation = carelink.RelationCaregiver
	case users.RoleFamily:
		relation = carelink.RelationFamily
	default:
		return ErrNotLinked
	}

	ids, err := s.links.PatientIDs(viewer.ID, relation)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == patientID {
			return nil
		}
	}
	return ErrNotLinked
}
