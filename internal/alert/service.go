package alert

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/CareConnect-Health/care-service/internal/activity"
	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/carelink"
	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/CareConnect-Health/care-service/internal/task"
	"github.com/CareConnect-Health/care-service/internal/telemetry"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// TaskSource captures the task lookups the aggregator needs
type TaskSource interface {
	ListMissedForDay(patientIDs []string, day string) ([]task.Task, error)
	DeleteByID(taskID string) (bool, error)
}

// ActivitySource captures the activity-log lookups the aggregator needs
type ActivitySource interface {
	ListMissedForDay(category string, patientIDs []string, t time.Time) ([]activity.Log, error)
	DeleteByID(category, id string) (bool, error)
}

// UserDirectory captures the user lookups the service needs
type UserDirectory interface {
	GetByKeycloakID(keycloakUserID string) (*users.User, error)
	GetByID(userID string) (*users.User, error)
}

// LinkDirectory captures the link lookups used to scope alerts to a carer
type LinkDirectory interface {
	PatientIDs(carerID, relation string) ([]string, error)
}

var categories = []string{
	activity.CategoryCheckin,
	activity.CategoryHydration,
	activity.CategoryNutrition,
}

var categoryLabels = map[string]string{
	activity.CategoryCheckin:   "Check-In",
	activity.CategoryHydration: "Hydration",
	activity.CategoryNutrition: "Nutrition",
}

type Service struct {
	tasks     TaskSource
	activity  ActivitySource
	users     UserDirectory
	links     LinkDirectory
	publisher messaging.EventPublisher
	metrics   *telemetry.Metrics

	now func() time.Time
}

func NewService(tasks TaskSource, activitySource ActivitySource, userDir UserDirectory, links LinkDirectory, publisher messaging.EventPublisher, metrics *telemetry.Metrics) *Service {
	return &Service{
		tasks:     tasks,
		activity:  activitySource,
		users:     userDir,
		links:     links,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

func relationFor(role string) (string, bool) {
	switch role {
	case users.RoleCaregiver:
		return carelink.RelationCaregiver, true
	case users.RoleFamily:
		return carelink.RelationFamily, true
	default:
		return "", false
	}
}

// Aggregate builds today's alerts for the calling carer from the missed
// tasks and activity logs of their linked patients, newest first.
func (s *Service) Aggregate(ctx context.Context, principal *auth.Principal) ([]Alert, error) {
	viewer, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	relation, ok := relationFor(viewer.Role)
	if !ok {
		return nil, ErrRoleMismatch
	}

	patientIDs, err := s.links.PatientIDs(viewer.ID, relation)
	if err != nil {
		return nil, err
	}
	if len(patientIDs) == 0 {
		return nil, nil
	}

	names := make(map[string]string, len(patientIDs))
	for _, id := range patientIDs {
		patient, err := s.users.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve patient %s: %w", id, err)
		}
		names[id] = patient.Name
	}

	now := s.now()
	day := now.Format(task.DateLayout)

	var alerts []Alert

	missedTasks, err := s.tasks.ListMissedForDay(patientIDs, day)
	if err != nil {
		return nil, err
	}
	for i := range missedTasks {
		t := &missedTasks[i]

		timestamp, err := t.DueAt(now.Location())
		if err != nil {
			timestamp = t.CreatedAt
		}

		alerts = append(alerts, Alert{
			ID:          t.ID,
			PatientID:   t.PatientID,
			PatientName: names[t.PatientID],
			Type:        TypeTask,
			Message:     fmt.Sprintf("%s missed %s at %s", names[t.PatientID], t.Name, t.Time),
			Timestamp:   timestamp,
		})
	}

	for _, category := range categories {
		label := categoryLabels[category]

		logs, err := s.activity.ListMissedForDay(category, patientIDs, now)
		if err != nil {
			return nil, err
		}
		for i := range logs {
			entry := &logs[i]
			alerts = append(alerts, Alert{
				ID:          entry.ID,
				PatientID:   entry.PatientID,
				PatientName: names[entry.PatientID],
				Type:        category,
				Message: fmt.Sprintf("%s missed %s %s at %s",
					names[entry.PatientID], entry.Period, label, entry.Timestamp.Format("15:04")),
				Timestamp: entry.Timestamp,
			})
		}
	}

	// Newest first; ties break on ID so the same data always yields the
	// same order.
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Timestamp.Equal(alerts[j].Timestamp) {
			return alerts[i].ID < alerts[j].ID
		}
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})

	if s.metrics != nil {
		s.metrics.RecordAlertsAggregated(ctx, len(alerts))
	}

	return alerts, nil
}

// Dismiss removes an alert by deleting its source row. Row IDs are UUIDs,
// so probing every source table by ID is unambiguous.
func (s *Service) Dismiss(ctx context.Context, alertID string, principal *auth.Principal) error {
	caller, err := s.users.GetByKeycloakID(principal.UserID)
	if err != nil {
		return err
	}
	if _, ok := relationFor(caller.Role); !ok {
		return ErrRoleMismatch
	}

	deleted, err := s.tasks.DeleteByID(alertID)
	if err != nil {
		return err
	}

	if !deleted {
		for _, category := range categories {
			deleted, err = s.activity.DeleteByID(category, alertID)
			if err != nil {
				return err
			}
			if deleted {
				break
			}
		}
	}

	if !deleted {
		return ErrAlertNotFound
	}

	if s.publisher != nil {
		event := messaging.AlertDismissedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventAlertDismissed),
			Data: messaging.AlertDismissedData{
				SourceID:    alertID,
				DismissedBy: caller.ID,
				DismissedAt: time.Now().UTC(),
			},
		}
		if err := s.publisher.Publish(ctx, messaging.EventAlertDismissed, event); err != nil {
			log.Printf("Warning: failed to publish alert.dismissed event: %v", err)
		}
	}

	log.Printf("Alert %s dismissed by %s", alertID, caller.ID)

	return nil
}
