package medication

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const medicationColumns = `id, patient_id, name, dosage, description, start_date, end_date, first_hour, interval_hours, times_per_day, taken_list, created_by, created_at`

func scanMedication(row interface{ Scan(...interface{}) error }) (*Medication, error) {
	m := &Medication{}
	var description sql.NullString

	err := row.Scan(
		&m.ID,
		&m.PatientID,
		&m.Name,
		&m.Dosage,
		&description,
		&m.StartDate,
		&m.EndDate,
		&m.FirstHour,
		&m.IntervalHours,
		&m.TimesPerDay,
		&m.TakenList,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		m.Description = description.String
	}
	if m.TakenList == nil {
		m.TakenList = TakenList{}
	}
	return m, nil
}

func (r *Repository) Create(m *Medication) error {
	m.ID = uuid.New().String()
	m.CreatedAt = time.Now()
	if m.TakenList == nil {
		m.TakenList = TakenList{}
	}

	query := `
		INSERT INTO careconnect.medications (id, patient_id, name, dosage, description, start_date, end_date, first_hour, interval_hours, times_per_day, taken_list, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(query,
		m.ID,
		m.PatientID,
		m.Name,
		m.Dosage,
		m.Description,
		m.StartDate,
		m.EndDate,
		m.FirstHour,
		m.IntervalHours,
		m.TimesPerDay,
		m.TakenList,
		m.CreatedBy,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medication: %w", err)
	}

	log.Printf("Created medication '%s' for patient %s (%d doses/day every %dh from %s)",
		m.Name, m.PatientID, m.TimesPerDay, m.IntervalHours, m.FirstHour)

	return nil
}

func (r *Repository) GetByID(medicationID string) (*Medication, error) {
	query := fmt.Sprintf(`SELECT %s FROM careconnect.medications WHERE id = $1`, medicationColumns)

	m, err := scanMedication(r.db.QueryRow(query, medicationID))
	if err == sql.ErrNoRows {
		return nil, ErrMedicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return m, nil
}

func (r *Repository) scanMedications(rows *sql.Rows) ([]Medication, error) {
	var medications []Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		medications = append(medications, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}
	return medications, nil
}

// ListForPatient returns all medications of a patient, newest first
func (r *Repository) ListForPatient(patientID string) ([]Medication, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.medications
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, medicationColumns)

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	return r.scanMedications(rows)
}

// ListActiveOn returns every medication whose prescription covers the given
// day, across all patients. Feeds the missed-dose detector.
func (r *Repository) ListActiveOn(day time.Time) ([]Medication, error) {
	date := day.Format(DateLayout)

	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.medications
		WHERE start_date <= $1 AND end_date >= $1
		ORDER BY patient_id, first_hour
	`, medicationColumns)

	rows, err := r.db.Query(query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list active medications: %w", err)
	}
	defer rows.Close()

	return r.scanMedications(rows)
}

// SetTakenList replaces the medication's taken list
func (r *Repository) SetTakenList(medicationID string, takenList TakenList) error {
	result, err := r.db.Exec(`UPDATE careconnect.medications SET taken_list = $1 WHERE id = $2`, takenList, medicationID)
	if err != nil {
		return fmt.Errorf("failed to update taken list: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrMedicationNotFound
	}
	return nil
}
