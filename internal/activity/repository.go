package activity

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

// logTable resolves the table backing a category. Categories come from the
// constant set, never from raw request paths without validation.
func logTable(category string) (string, error) {
	switch category {
	case CategoryCheckin:
		return "careconnect.checkin_logs", nil
	case CategoryHydration:
		return "careconnect.hydration_logs", nil
	case CategoryNutrition:
		return "careconnect.nutrition_logs", nil
	}
	return "", ErrUnknownCategory
}

// dayRange returns [start, end) bounds of the calendar day around t
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *Repository) Insert(category string, entry *Log) error {
	table, err := logTable(category)
	if err != nil {
		return err
	}

	entry.ID = uuid.New().String()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, patient_id, period, amount_ml, status, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, table)

	_, err = r.db.Exec(query,
		entry.ID,
		entry.PatientID,
		entry.Period,
		entry.AmountML,
		entry.Status,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s log: %w", category, err)
	}

	log.Printf("Inserted %s log: patient %s, period %s, status %s", category, entry.PatientID, entry.Period, entry.Status)

	return nil
}

// HasStatusForDay reports whether the patient already has a log with the
// given status for a period on the day around t.
func (r *Repository) HasStatusForDay(category, patientID, period, status string, t time.Time) (bool, error) {
	table, err := logTable(category)
	if err != nil {
		return false, err
	}

	start, end := dayRange(t)

	query := fmt.Sprintf(`
		SELECT 1 FROM %s
		WHERE patient_id = $1 AND period = $2 AND status = $3
		  AND timestamp >= $4 AND timestamp < $5
		LIMIT 1
	`, table)

	var one int
	err = r.db.QueryRow(query, patientID, period, status, start, end).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s log: %w", category, err)
	}
	return true, nil
}

func (r *Repository) scanLogs(rows *sql.Rows, category string) ([]Log, error) {
	var logs []Log
	for rows.Next() {
		var entry Log
		var amountML sql.NullInt64

		err := rows.Scan(
			&entry.ID,
			&entry.PatientID,
			&entry.Period,
			&amountML,
			&entry.Status,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s log: %w", category, err)
		}

		if amountML.Valid {
			entry.AmountML = int(amountML.Int64)
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s logs: %w", category, err)
	}

	return logs, nil
}

// ListForDay returns all logs of a patient for the day around t
func (r *Repository) ListForDay(category, patientID string, t time.Time) ([]Log, error) {
	table, err := logTable(category)
	if err != nil {
		return nil, err
	}

	start, end := dayRange(t)

	query := fmt.Sprintf(`
		SELECT id, patient_id, period, amount_ml, status, timestamp
		FROM %s
		WHERE patient_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp
	`, table)

	rows, err := r.db.Query(query, patientID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s logs: %w", category, err)
	}
	defer rows.Close()

	return r.scanLogs(rows, category)
}

// ListMissedForDay returns the missed logs of a set of patients for the day
// around t. Feeds the alert aggregation.
func (r *Repository) ListMissedForDay(category string, patientIDs []string, t time.Time) ([]Log, error) {
	table, err := logTable(category)
	if err != nil {
		return nil, err
	}

	if len(patientIDs) == 0 {
		return nil, nil
	}

	start, end := dayRange(t)

	query := fmt.Sprintf(`
		SELECT id, patient_id, period, amount_ml, status, timestamp
		FROM %s
		WHERE patient_id = ANY($1) AND status = $2
		  AND timestamp >= $3 AND timestamp < $4
		ORDER BY timestamp DESC
	`, table)

	rows, err := r.db.Query(query, pq.Array(patientIDs), StatusMissed, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list missed %s logs: %w", category, err)
	}
	defer rows.Close()

	return r.scanLogs(rows, category)
}

// InsertMissedIfAbsent derives a missed log for a period of the day unless
// any log for that (patient, period, day) already exists. Idempotent, so the
// detector can run repeatedly without duplicating rows.
func (r *Repository) InsertMissedIfAbsent(category, patientID, period string, ts time.Time) (bool, error) {
	table, err := logTable(category)
	if err != nil {
		return false, err
	}

	start, end := dayRange(ts)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, patient_id, period, amount_ml, status, timestamp)
		SELECT $1, $2, $3, 0, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM %s
			WHERE patient_id = $2 AND period = $3
			  AND timestamp >= $6 AND timestamp < $7
		)
	`, table, table)

	result, err := r.db.Exec(query, uuid.New().String(), patientID, period, StatusMissed, ts, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to derive missed %s log: %w", category, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// DeleteByID removes a log by its ID, returning whether a row was deleted.
// Used by alert dismissal, which probes every source table.
func (r *Repository) DeleteByID(category, id string) (bool, error) {
	table, err := logTable(category)
	if err != nil {
		return false, err
	}

	result, err := r.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s log: %w", category, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// CountsBetween returns confirmed and total log counts for a patient in
// [from, to). Backs the wellbeing stats.
func (r *Repository) CountsBetween(category, patientID string, from, to time.Time) (int, int, error) {
	table, err := logTable(category)
	if err != nil {
		return 0, 0, err
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) FILTER (WHERE status = $1), COUNT(*)
		FROM %s
		WHERE patient_id = $2 AND timestamp >= $3 AND timestamp < $4
	`, table)

	var confirmed, total int
	err = r.db.QueryRow(query, StatusConfirmed, patientID, from, to).Scan(&confirmed, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count %s logs: %w", category, err)
	}
	return confirmed, total, nil
}
