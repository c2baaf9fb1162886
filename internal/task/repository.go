package task

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const taskColumns = `id, patient_id, name, description, date, time, status, created_by, created_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*Task, error) {
	t := &Task{}
	var description sql.NullString

	err := row.Scan(
		&t.ID,
		&t.PatientID,
		&t.Name,
		&description,
		&t.Date,
		&t.Time,
		&t.Status,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = description.String
	}
	return t, nil
}

func (r *Repository) Create(t *Task) error {
	t.ID = uuid.New().String()
	t.Status = StatusPending
	t.CreatedAt = time.Now()

	query := `
		INSERT INTO careconnect.tasks (id, patient_id, name, description, date, time, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		t.ID,
		t.PatientID,
		t.Name,
		t.Description,
		t.Date,
		t.Time,
		t.Status,
		t.CreatedBy,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	log.Printf("Created task '%s' for patient %s at %s %s", t.Name, t.PatientID, t.Date, t.Time)

	return nil
}

func (r *Repository) GetByID(taskID string) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM careconnect.tasks WHERE id = $1`, taskColumns)

	t, err := scanTask(r.db.QueryRow(query, taskID))
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *Repository) scanTasks(rows *sql.Rows) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// ListForPatient returns all tasks of a patient, upcoming first
func (r *Repository) ListForPatient(patientID string) ([]Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.tasks
		WHERE patient_id = $1
		ORDER BY date, time
	`, taskColumns)

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// ListMissedForDay returns missed tasks of a set of patients dated the given
// day. Feeds the alert aggregation.
func (r *Repository) ListMissedForDay(patientIDs []string, day string) ([]Task, error) {
	if len(patientIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.tasks
		WHERE patient_id = ANY($1) AND status = $2 AND date = $3
		ORDER BY time DESC
	`, taskColumns)

	rows, err := r.db.Query(query, pq.Array(patientIDs), StatusMissed, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list missed tasks: %w", err)
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// ListOverduePending returns pending tasks due strictly before the given
// moment. Zero-padded date and time strings compare chronologically.
func (r *Repository) ListOverduePending(now time.Time) ([]Task, error) {
	date := now.Format(DateLayout)
	clock := now.Format(TimeLayout)

	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.tasks
		WHERE status = $1 AND (date < $2 OR (date = $2 AND time < $3))
		ORDER BY date, time
	`, taskColumns)

	rows, err := r.db.Query(query, StatusPending, date, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	defer rows.Close()

	return r.scanTasks(rows)
}

// UpdateStatus transitions a task's status
func (r *Repository) UpdateStatus(taskID, status string) error {
	result, err := r.db.Exec(`UPDATE careconnect.tasks SET status = $1 WHERE id = $2`, status, taskID)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrTaskNotFound
	}

	log.Printf("Task %s -> %s", taskID, status)

	return nil
}

// DeleteByID removes a task, returning whether a row was deleted. Also used
// by alert dismissal, which probes every source table.
func (r *Repository) DeleteByID(taskID string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM careconnect.tasks WHERE id = $1`, taskID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
