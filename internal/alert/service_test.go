package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CareConnect-Health/care-service/internal/activity"
	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/CareConnect-Health/care-service/internal/task"
	"github.com/CareConnect-Health/care-service/internal/users"
)

type mockTaskSource struct {
	missed     []task.Task
	missedErr  error
	deletedIDs []string
	deletes    bool
}

func (m *mockTaskSource) ListMissedForDay(patientIDs []string, day string) ([]task.Task, error) {
	return m.missed, m.missedErr
}

func (m *mockTaskSource) DeleteByID(taskID string) (bool, error) {
	m.deletedIDs = append(m.deletedIDs, taskID)
	return m.deletes, nil
}

type mockActivitySource struct {
	missed          map[string][]activity.Log
	deletedCategory string
	deletes         bool
}

func (m *mockActivitySource) ListMissedForDay(category string, patientIDs []string, t time.Time) ([]activity.Log, error) {
	return m.missed[category], nil
}

func (m *mockActivitySource) DeleteByID(category, id string) (bool, error) {
	if m.deletes && category == m.deletedCategory {
		return true, nil
	}
	return false, nil
}

type mockUserDirectory struct {
	viewer   *users.User
	patients map[string]*users.User
}

func (m *mockUserDirectory) GetByKeycloakID(keycloakUserID string) (*users.User, error) {
	if m.viewer != nil {
		return m.viewer, nil
	}
	return nil, users.ErrUserNotFound
}

func (m *mockUserDirectory) GetByID(userID string) (*users.User, error) {
	if patient, ok := m.patients[userID]; ok {
		return patient, nil
	}
	return nil, users.ErrUserNotFound
}

type mockLinkDirectory struct {
	patientIDs []string
}

func (m *mockLinkDirectory) PatientIDs(carerID, relation string) ([]string, error) {
	return m.patientIDs, nil
}

type mockPublisher struct {
	routingKeys []string
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, event interface{}) error {
	m.routingKeys = append(m.routingKeys, routingKey)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func caregiverDirectory() *mockUserDirectory {
	return &mockUserDirectory{
		viewer: &users.User{ID: "carer-1", Role: users.RoleCaregiver},
		patients: map[string]*users.User{
			"patient-1": {ID: "patient-1", Name: "Anna", Role: users.RoleOlderAdult},
		},
	}
}

func fixedService(tasks *mockTaskSource, activitySource *mockActivitySource, publisher messaging.EventPublisher) *Service {
	service := NewService(tasks, activitySource, caregiverDirectory(),
		&mockLinkDirectory{patientIDs: []string{"patient-1"}}, publisher, nil)
	service.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return service
}

func TestAggregate_MessagesAndOrder(t *testing.T) {
	tasks := &mockTaskSource{
		missed: []task.Task{{
			ID:        "task-1",
			PatientID: "patient-1",
			Name:      "Take a walk",
			Date:      "2026-09-01",
			Time:      "07:30",
			Status:    task.StatusMissed,
		}},
	}
	activitySource := &mockActivitySource{
		missed: map[string][]activity.Log{
			activity.CategoryHydration: {{
				ID:        "log-1",
				PatientID: "patient-1",
				Period:    "Morning",
				Status:    activity.StatusMissed,
				Timestamp: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
			}},
		},
	}

	service := fixedService(tasks, activitySource, nil)

	alerts, err := service.Aggregate(context.Background(), &auth.Principal{UserID: "kc-carer"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}

	// hydration at 09:00 is newer than the 07:30 task
	if alerts[0].Message != "Anna missed Morning Hydration at 09:00" {
		t.Errorf("unexpected first alert message %q", alerts[0].Message)
	}
	if alerts[1].Message != "Anna missed Take a walk at 07:30" {
		t.Errorf("unexpected second alert message %q", alerts[1].Message)
	}
	if alerts[0].ID != "log-1" || alerts[1].ID != "task-1" {
		t.Errorf("expected alerts to carry their source row IDs, got %s, %s", alerts[0].ID, alerts[1].ID)
	}
}

func TestAggregate_StableOrderOnEqualTimestamps(t *testing.T) {
	// Derived missed logs share the window time, so all three categories
	// can land on the same timestamp within one day.
	windowTime := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	activitySource := &mockActivitySource{
		missed: map[string][]activity.Log{
			activity.CategoryCheckin: {{
				ID: "checkin-1", PatientID: "patient-1", Period: "Morning",
				Status: activity.StatusMissed, Timestamp: windowTime,
			}},
			activity.CategoryHydration: {{
				ID: "hydration-1", PatientID: "patient-1", Period: "Morning",
				Status: activity.StatusMissed, Timestamp: windowTime,
			}},
			activity.CategoryNutrition: {{
				ID: "nutrition-1", PatientID: "patient-1", Period: "Breakfast",
				Status: activity.StatusMissed, Timestamp: windowTime,
			}},
		},
	}

	service := fixedService(&mockTaskSource{}, activitySource, nil)
	principal := &auth.Principal{UserID: "kc-carer"}

	first, err := service.Aggregate(context.Background(), principal)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(first))
	}

	for run := 0; run < 100; run++ {
		again, err := service.Aggregate(context.Background(), principal)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for i := range first {
			if again[i].ID != first[i].ID {
				t.Fatalf("run %d: order changed with unchanged data: got %s at %d, want %s",
					run, again[i].ID, i, first[i].ID)
			}
		}
	}
}

func TestAggregate_NoLinkedPatients(t *testing.T) {
	service := NewService(&mockTaskSource{}, &mockActivitySource{}, caregiverDirectory(),
		&mockLinkDirectory{}, nil, nil)

	alerts, err := service.Aggregate(context.Background(), &auth.Principal{UserID: "kc-carer"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(alerts))
	}
}

func TestAggregate_OlderAdultRejected(t *testing.T) {
	service := NewService(&mockTaskSource{}, &mockActivitySource{},
		&mockUserDirectory{viewer: &users.User{ID: "patient-1", Role: users.RoleOlderAdult}},
		&mockLinkDirectory{}, nil, nil)

	_, err := service.Aggregate(context.Background(), &auth.Principal{UserID: "kc-patient"})
	if !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("expected ErrRoleMismatch, got %v", err)
	}
}

func TestAggregate_PropagatesSourceErrors(t *testing.T) {
	tasks := &mockTaskSource{missedErr: errors.New("connection refused")}
	service := fixedService(tasks, &mockActivitySource{}, nil)

	_, err := service.Aggregate(context.Background(), &auth.Principal{UserID: "kc-carer"})
	if err == nil {
		t.Fatal("expected source failure to propagate, got nil")
	}
}

func TestDismiss_TaskSource(t *testing.T) {
	tasks := &mockTaskSource{deletes: true}
	publisher := &mockPublisher{}
	service := fixedService(tasks, &mockActivitySource{}, publisher)

	err := service.Dismiss(context.Background(), "task-1", &auth.Principal{UserID: "kc-carer"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(tasks.deletedIDs) != 1 || tasks.deletedIDs[0] != "task-1" {
		t.Errorf("expected task-1 deleted, got %v", tasks.deletedIDs)
	}
	if len(publisher.routingKeys) != 1 || publisher.routingKeys[0] != messaging.EventAlertDismissed {
		t.Errorf("expected alert.dismissed event, got %v", publisher.routingKeys)
	}
}

func TestDismiss_ActivitySource(t *testing.T) {
	activitySource := &mockActivitySource{deletes: true, deletedCategory: activity.CategoryNutrition}
	service := fixedService(&mockTaskSource{}, activitySource, nil)

	err := service.Dismiss(context.Background(), "log-1", &auth.Principal{UserID: "kc-carer"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDismiss_UnknownID(t *testing.T) {
	service := fixedService(&mockTaskSource{}, &mockActivitySource{}, nil)

	err := service.Dismiss(context.Background(), "nope", &auth.Principal{UserID: "kc-carer"})
	if !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("expected ErrAlertNotFound, got %v", err)
	}
}
