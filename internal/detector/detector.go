package detector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/CareConnect-Health/care-service/internal/activity"
	"github.com/CareConnect-Health/care-service/internal/medication"
	"github.com/CareConnect-Health/care-service/internal/notification"
	"github.com/CareConnect-Health/care-service/internal/task"
	"github.com/CareConnect-Health/care-service/internal/telemetry"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// MedicationSource captures the medication lookups the detector needs
type MedicationSource interface {
	ListActiveOn(day time.Time) ([]medication.Medication, error)
}

// TaskSource captures the task lookups and transitions the detector needs
type TaskSource interface {
	ListOverduePending(now time.Time) ([]task.Task, error)
	UpdateStatus(taskID, status string) error
}

// ActivitySource derives missed activity logs for elapsed periods
type ActivitySource interface {
	InsertMissedIfAbsent(category, patientID, period string, ts time.Time) (bool, error)
}

// PatientDirectory resolves the patients the detector sweeps
type PatientDirectory interface {
	GetByID(userID string) (*users.User, error)
	ListByRole(role string) ([]users.User, error)
}

// Notifier fans a message out to a patient's linked carers
type Notifier interface {
	FanOut(ctx context.Context, patient *users.User, message, notifType string) (int, error)
}

// dedup is a process-local set of already-notified occurrences. Not
// persisted; a restart may re-notify, which is acceptable for overdue doses.
type dedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newDedup() *dedup {
	return &dedup{seen: make(map[string]struct{})}
}

func (d *dedup) marked(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[key]
	return ok
}

func (d *dedup) mark(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[key] = struct{}{}
}

// Detector sweeps medications, tasks and activity periods for things the
// patient should have done by now, marks them missed and notifies carers.
type Detector struct {
	medications MedicationSource
	tasks       TaskSource
	activity    ActivitySource
	patients    PatientDirectory
	notifier    Notifier
	metrics     *telemetry.Metrics

	doses    *dedup
	taskSeen *dedup
}

func New(medications MedicationSource, tasks TaskSource, activitySource ActivitySource, patients PatientDirectory, notifier Notifier, metrics *telemetry.Metrics) *Detector {
	return &Detector{
		medications: medications,
		tasks:       tasks,
		activity:    activitySource,
		patients:    patients,
		notifier:    notifier,
		metrics:     metrics,
		doses:       newDedup(),
		taskSeen:    newDedup(),
	}
}

// Run executes one detection sweep at the given time
func (d *Detector) Run(ctx context.Context, now time.Time) error {
	if err := d.sweepMedications(ctx, now); err != nil {
		return fmt.Errorf("medication sweep failed: %w", err)
	}
	if err := d.sweepTasks(ctx, now); err != nil {
		return fmt.Errorf("task sweep failed: %w", err)
	}
	if err := d.sweepActivity(ctx, now); err != nil {
		return fmt.Errorf("activity sweep failed: %w", err)
	}
	return nil
}

func (d *Detector) sweepMedications(ctx context.Context, now time.Time) error {
	medications, err := d.medications.ListActiveOn(now)
	if err != nil {
		return err
	}

	date := now.Format(medication.DateLayout)

	for i := range medications {
		m := &medications[i]

		missed, err := m.MissedDoseIndexes(now)
		if err != nil {
			log.Printf("Skipping medication %s with bad schedule: %v", m.ID, err)
			continue
		}
		if len(missed) == 0 {
			continue
		}

		doseTimes, err := m.DoseTimes(now)
		if err != nil {
			continue
		}

		var patient *users.User
		for _, idx := range missed {
			key := medication.DoseKey(m.ID, date, idx)
			if d.doses.marked(key) {
				continue
			}

			if patient == nil {
				patient, err = d.patients.GetByID(m.PatientID)
				if err != nil {
					log.Printf("Cannot resolve patient %s for medication %s: %v", m.PatientID, m.ID, err)
					break
				}
			}

			message := fmt.Sprintf("%s missed medication: %s at %s",
				patient.Name, m.Name, doseTimes[idx].Format(medication.TimeLayout))

			if _, err := d.notifier.FanOut(ctx, patient, message, notification.TypeMissedMedication); err != nil {
				log.Printf("Failed to notify missed dose %s: %v", key, err)
				continue
			}

			d.doses.mark(key)

			if d.metrics != nil {
				d.metrics.RecordMissedDose(ctx)
			}

			log.Printf("✓ Missed dose detected: %s", key)
		}
	}
	return nil
}

func (d *Detector) sweepTasks(ctx context.Context, now time.Time) error {
	overdue, err := d.tasks.ListOverduePending(now)
	if err != nil {
		return err
	}

	for i := range overdue {
		t := &overdue[i]

		if d.taskSeen.marked(t.ID) {
			continue
		}

		if err := d.tasks.UpdateStatus(t.ID, task.StatusMissed); err != nil {
			log.Printf("Failed to mark task %s missed: %v", t.ID, err)
			continue
		}

		patient, err := d.patients.GetByID(t.PatientID)
		if err != nil {
			log.Printf("Cannot resolve patient %s for task %s: %v", t.PatientID, t.ID, err)
			continue
		}

		message := fmt.Sprintf("%s missed a task: %s", patient.Name, t.Name)

		if _, err := d.notifier.FanOut(ctx, patient, message, notification.TypeMissedTask); err != nil {
			log.Printf("Failed to notify missed task %s: %v", t.ID, err)
			continue
		}

		d.taskSeen.mark(t.ID)

		log.Printf("✓ Overdue task %s marked missed", t.ID)
	}
	return nil
}

// sweepActivity inserts a missed log for every elapsed period of today that
// the patient never confirmed, so the alert aggregation picks it up. The
// insert is idempotent per (patient, period, day).
func (d *Detector) sweepActivity(_ context.Context, now time.Time) error {
	patients, err := d.patients.ListByRole(users.RoleOlderAdult)
	if err != nil {
		return err
	}

	categories := []string{activity.CategoryCheckin, activity.CategoryHydration, activity.CategoryNutrition}

	derived := 0
	for _, category := range categories {
		elapsed, err := activity.ElapsedPeriods(category, now)
		if err != nil {
			return err
		}

		for _, window := range elapsed {
			for i := range patients {
				inserted, err := d.activity.InsertMissedIfAbsent(category, patients[i].ID, window.Name, window.WindowTime(now))
				if err != nil {
					return err
				}
				if inserted {
					derived++
				}
			}
		}
	}

	if derived > 0 {
		log.Printf("Derived %d missed activity log(s)", derived)
	}
	return nil
}
