package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// mockRepository implements RepositoryInterface for testing
type mockRepository struct {
	fanOutFunc       func(notifications []Notification) error
	listForCarerFunc func(carerID string) ([]Notification, error)
	markReadFunc     func(notificationID, carerID string) error
}

func (m *mockRepository) FanOut(notifications []Notification) error {
	if m.fanOutFunc != nil {
		return m.fanOutFunc(notifications)
	}
	return nil
}

func (m *mockRepository) ListForCarer(carerID string) ([]Notification, error) {
	if m.listForCarerFunc != nil {
		return m.listForCarerFunc(carerID)
	}
	return nil, nil
}

func (m *mockRepository) MarkRead(notificationID, carerID string) error {
	if m.markReadFunc != nil {
		return m.markReadFunc(notificationID, carerID)
	}
	return nil
}

type mockUserDirectory struct {
	user *users.User
}

func (m *mockUserDirectory) GetByKeycloakID(keycloakUserID string) (*users.User, error) {
	if m.user != nil {
		return m.user, nil
	}
	return nil, users.ErrUserNotFound
}

type mockCarerDirectory struct {
	carerIDs []string
}

func (m *mockCarerDirectory) CarerIDs(patientID string) ([]string, error) {
	return m.carerIDs, nil
}

type mockPublisher struct {
	routingKeys []string
	events      []interface{}
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	m.routingKeys = append(m.routingKeys, routingKey)
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func TestEmergency_FansOutToAllCarers(t *testing.T) {
	var written []Notification
	repo := &mockRepository{
		fanOutFunc: func(notifications []Notification) error {
			written = notifications
			return nil
		},
	}
	publisher := &mockPublisher{}
	service := NewService(repo,
		&mockUserDirectory{user: &users.User{ID: "patient-1", Name: "Anna", Role: users.RoleOlderAdult}},
		&mockCarerDirectory{carerIDs: []string{"carer-1", "carer-2"}},
		publisher, nil,
	)

	count, err := service.Emergency(context.Background(), &auth.Principal{UserID: "kc-patient"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if count != 2 {
		t.Errorf("expected 2 notifications, got %d", count)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 rows written, got %d", len(written))
	}
	if written[0].Message != "Emergency alert from Anna!" {
		t.Errorf("unexpected message %q", written[0].Message)
	}
	if written[0].Type != TypeEmergency {
		t.Errorf("expected emergency type, got %s", written[0].Type)
	}
	if written[1].CaregiverID != "carer-2" {
		t.Errorf("expected second recipient carer-2, got %s", written[1].CaregiverID)
	}

	if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != messaging.EventAlertEmergency {
		t.Errorf("expected one alert.emergency event, got %v", publisher.routingKeys)
	}
}

func TestEmergency_CarerRejected(t *testing.T) {
	service := NewService(&mockRepository{},
		&mockUserDirectory{user: &users.User{ID: "carer-1", Role: users.RoleCaregiver}},
		&mockCarerDirectory{}, nil, nil,
	)

	_, err := service.Emergency(context.Background(), &auth.Principal{UserID: "kc-carer"})
	if !errors.Is(err, ErrNotAPatient) {
		t.Errorf("expected ErrNotAPatient, got %v", err)
	}
}

func TestEmergency_NoLinkedCarers(t *testing.T) {
	service := NewService(&mockRepository{},
		&mockUserDirectory{user: &users.User{ID: "patient-1", Name: "Anna", Role: users.RoleOlderAdult}},
		&mockCarerDirectory{}, nil, nil,
	)

	_, err := service.Emergency(context.Background(), &auth.Principal{UserID: "kc-patient"})
	if !errors.Is(err, ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
}

func TestFanOut_MissedMedicationRoutingKey(t *testing.T) {
	publisher := &mockPublisher{}
	service := NewService(&mockRepository{},
		&mockUserDirectory{},
		&mockCarerDirectory{carerIDs: []string{"carer-1"}},
		publisher, nil,
	)

	patient := &users.User{ID: "patient-1", Name: "Anna", Role: users.RoleOlderAdult}
	count, err := service.FanOut(context.Background(), patient, "Anna missed a dose of Lisinopril", TypeMissedMedication)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 notification, got %d", count)
	}
	if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != messaging.EventAlertMissedMedication {
		t.Errorf("expected alert.missed_medication event, got %v", publisher.routingKeys)
	}
}

func TestFanOut_NilPublisher(t *testing.T) {
	service := NewService(&mockRepository{},
		&mockUserDirectory{},
		&mockCarerDirectory{carerIDs: []string{"carer-1"}},
		nil, nil,
	)

	patient := &users.User{ID: "patient-1", Name: "Anna"}
	if _, err := service.FanOut(context.Background(), patient, "msg", TypeMissedTask); err != nil {
		t.Fatalf("expected fan-out to tolerate a nil publisher, got %v", err)
	}
}

func TestList_ScopedToCaller(t *testing.T) {
	var requested string
	repo := &mockRepository{
		listForCarerFunc: func(carerID string) ([]Notification, error) {
			requested = carerID
			return []Notification{{ID: "notif-1", CaregiverID: carerID}}, nil
		},
	}
	service := NewService(repo,
		&mockUserDirectory{user: &users.User{ID: "carer-1", Role: users.RoleCaregiver}},
		&mockCarerDirectory{}, nil, nil,
	)

	notifications, err := service.List(&auth.Principal{UserID: "kc-carer"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if requested != "carer-1" {
		t.Errorf("expected lookup for carer-1, got %s", requested)
	}
	if len(notifications) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notifications))
	}
}

func TestMarkRead_NotFound(t *testing.T) {
	repo := &mockRepository{
		markReadFunc: func(notificationID, carerID string) error {
			return ErrNotificationNotFound
		},
	}
	service := NewService(repo,
		&mockUserDirectory{user: &users.User{ID: "carer-1", Role: users.RoleCaregiver}},
		&mockCarerDirectory{}, nil, nil,
	)

	err := service.MarkRead("missing", &auth.Principal{UserID: "kc-carer"})
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound, got %v", err)
	}
}
