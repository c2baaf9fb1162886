package notification

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

// FanOut writes one notification row per recipient in a single transaction
func (r *Repository) FanOut(notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO careconnect.notifications (id, patient_id, patient_name, caregiver_id, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := range notifications {
		n := &notifications[i]
		n.ID = uuid.New().String()
		n.IsRead = false
		n.CreatedAt = now

		if _, err := stmt.Exec(n.ID, n.PatientID, n.PatientName, n.CaregiverID, n.Message, n.Type, n.IsRead, n.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notifications: %w", err)
	}

	log.Printf("Fanned out %d %s notification(s) for patient %s",
		len(notifications), notifications[0].Type, notifications[0].PatientID)

	return nil
}

// ListForCarer returns a carer's notifications, newest first
func (r *Repository) ListForCarer(carerID string) ([]Notification, error) {
	query := `
		SELECT id, patient_id, patient_name, caregiver_id, message, type, is_read, created_at
		FROM careconnect.notifications
		WHERE caregiver_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, carerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(&n.ID, &n.PatientID, &n.PatientName, &n.CaregiverID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a notification as read, scoped to its recipient
func (r *Repository) MarkRead(notificationID, carerID string) error {
	result, err := r.db.Exec(`
		UPDATE careconnect.notifications SET is_read = TRUE
		WHERE id = $1 AND caregiver_id = $2
	`, notificationID, carerID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
