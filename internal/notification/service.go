package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/CareConnect-Health/care-service/internal/telemetry"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// UserDirectory captures the user lookups the service needs
type UserDirectory interface {
	GetByKeycloakID(keycloakUserID string) (*users.User, error)
}

// CarerDirectory resolves the carers linked to a patient
type CarerDirectory interface {
	CarerIDs(patientID string) ([]string, error)
}

type Service struct {
	repo      RepositoryInterface
	users     UserDirectory
	links     CarerDirectory
	publisher messaging.EventPublisher
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, userDir UserDirectory, links CarerDirectory, publisher messaging.EventPublisher, metrics *telemetry.Metrics) *Service {
	return &Service{
		repo:      repo,
		users:     userDir,
		links:     links,
		publisher: publisher,
		metrics:   metrics,
	}
}

func routingKeyFor(notifType string) string {
	switch notifType {
	case TypeEmergency:
		return messaging.EventAlertEmergency
	case TypeMissedMedication:
		return messaging.EventAlertMissedMedication
	default:
		return messaging.EventAlertMissedTask
	}
}

// FanOut delivers one message to every carer linked to the patient, in a
// single transaction, and publishes a matching domain event.
func (s *Service) FanOut(ctx context.Context, patient *users.User, message, notifType string) (int, error) {
	recipients, err := s.links.CarerIDs(patient.ID)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		log.Printf("No linked carers for patient %s, nothing to notify", patient.ID)
		return 0, nil
	}

	notifications := make([]Notification, 0, len(recipients))
	for _, carerID := range recipients {
		notifications = append(notifications, Notification{
			PatientID:   patient.ID,
			PatientName: patient.Name,
			CaregiverID: carerID,
			Message:     message,
			Type:        notifType,
		})
	}

	if err := s.repo.FanOut(notifications); err != nil {
		return 0, err
	}

	if s.publisher != nil {
		event := messaging.AlertRaisedEvent{
			BaseEvent: messaging.NewBaseEvent(routingKeyFor(notifType)),
			Data: messaging.AlertRaisedData{
				PatientID:   patient.ID,
				PatientName: patient.Name,
				Message:     message,
				AlertType:   notifType,
				Recipients:  recipients,
				RaisedAt:    time.Now().UTC(),
			},
		}
		if err := s.publisher.Publish(ctx, routingKeyFor(notifType), event); err != nil {
			log.Printf("Warning: failed to publish %s event: %v", notifType, err)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordNotificationsFannedOut(ctx, notifType, len(notifications))
	}

	return len(notifications), nil
}

// Emergency raises an immediate alert from an older adult to everyone linked
// to them
func (s *Service) Emergency(ctx context.Context, principal *auth.Principal) (int, error) {
	patient, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return 0, err
	}
	if patient.Role != users.RoleOlderAdult {
		return 0, ErrNotAPatient
	}

	message := fmt.Sprintf("Emergency alert from %s!", patient.Name)

	count, err := s.FanOut(ctx, patient, message, TypeEmergency)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoRecipients
	}

	log.Printf("✓ Emergency alert from patient %s delivered to %d carer(s)", patient.ID, count)

	return count, nil
}

// List returns the caller's notifications, newest first
func (s *Service) List(principal *auth.Principal) ([]Notification, error) {
	caller, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListForCarer(caller.ID)
}

// MarkRead marks one of the caller's notifications as read
func (s *Service) MarkRead(notificationID string, principal *auth.Principal) error {
	caller, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return err
	}

	return s.repo.MarkRead(notificationID, caller.ID)
}
