package medication

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

// LinkDirectory captures the link lookups used for authorization
type LinkDirectory interface {
	PatientIDs(carerID, relation string) ([]string, error)
}

type Service struct {
	repo  RepositoryInterface
	users UserDirectory
	links LinkDirectory

	now func() time.Time
}

func NewService(repo RepositoryInterface, userDir UserDirectory, links LinkDirectory) *Service {
	return &Service{
		repo:  repo,
		users: userDir,
		links: links,
		now:   time.Now,
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

// Create prescribes a medication for a patient. Only linked caregivers and
// family members may prescribe.
func (s *Service) Create(patientID string, req CreateMedicationRequest, principal *auth.Principal) (*Medication, error) {
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

	m := &Medication{
		PatientID:     patientID,
		Name:          req.Name,
		Dosage:        req.Dosage,
		Description:   req.Description,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		FirstHour:     req.FirstHour,
		IntervalHours: req.IntervalHours,
		TimesPerDay:   req.TimesPerDay,
		TakenList:     TakenList{},
		CreatedBy:     creator.ID,
	}

	if err := s.repo.Create(m); err != nil {
		return nil, err
	}

	return m, nil
}

// ListForPatient returns a patient's medications to the patient themselves
// or a linked carer.
func (s *Service) ListForPatient(patientID string, principal *auth.Principal) ([]Medication, error) {
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

// ListMine returns the calling patient's own medications
func (s *Service) ListMine(principal *auth.Principal) ([]Medication, error) {
	viewer, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListForPatient(viewer.ID)
}

// Schedule computes the calling patient's dose occurrences for the given
// date. An empty date means today.
func (s *Service) Schedule(date string, principal *auth.Principal) ([]ScheduleEntry, error) {
	viewer, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	day := s.now()
	if date != "" {
		day, err = time.Parse(DateLayout, date)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}
	dateKey := day.Format(DateLayout)

	medications, err := s.repo.ListForPatient(viewer.ID)
	if err != nil {
		return nil, err
	}

	var entries []ScheduleEntry
	for i := range medications {
		m := &medications[i]
		if !m.ActiveOn(day) {
			continue
		}

		doseTimes, err := m.DoseTimes(day)
		if err != nil {
			log.Printf("Skipping medication %s with bad schedule: %v", m.ID, err)
			continue
		}

		for idx, doseTime := range doseTimes {
			entries = append(entries, ScheduleEntry{
				MedicationID: m.ID,
				Name:         m.Name,
				Dosage:       m.Dosage,
				DoseIndex:    idx,
				Time:         doseTime.Format(TimeLayout),
				Taken:        m.TakenList.Taken(dateKey, idx),
			})
		}
	}
	return entries, nil
}

// MarkTaken records one of the patient's own doses as taken
func (s *Service) MarkTaken(medicationID string, req MarkTakenRequest, principal *auth.Principal) (*Medication, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	caller, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(medicationID)
	if err != nil {
		return nil, err
	}

	if m.PatientID != caller.ID {
		return nil, ErrForbidden
	}

	day, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !m.ActiveOn(day) {
		return nil, ErrInactiveDate
	}

	doseTimes, err := m.DoseTimes(day)
	if err != nil {
		return nil, err
	}
	if req.DoseIndex >= len(doseTimes) {
		return nil, ErrInvalidDoseIndex
	}

	m.TakenList.MarkTaken(req.Date, req.DoseIndex)

	if err := s.repo.SetTakenList(m.ID, m.TakenList); err != nil {
		return nil, err
	}

	log.Printf("Patient %s took dose %d of '%s' on %s", caller.ID, req.DoseIndex, m.Name, req.Date)

	return m, nil
}
