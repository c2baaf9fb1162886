package carelink

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository struct {
	db        *sql.DB
	publisher messaging.EventPublisher
}

func NewRepository(db *sql.DB, publisher messaging.EventPublisher) *Repository {
	return &Repository{
		db:        db,
		publisher: publisher,
	}
}

// linkTable resolves which join table and carer column a relation uses.
// The relation is always one of the two constants, never caller input.
func linkTable(relation string) (string, string, error) {
	switch relation {
	case RelationCaregiver:
		return "careconnect.caregiver_patients", "caregiver_id", nil
	case RelationFamily:
		return "careconnect.family_patients", "family_id", nil
	}
	return "", "", fmt.Errorf("unknown relation: %s", relation)
}

// Create inserts the join row. The UNIQUE constraint on (carer, patient) is
// the guard against duplicate links, so two concurrent attempts cannot both
// succeed.
func (r *Repository) Create(link *Link) error {
	table, carerColumn, err := linkTable(link.Relation)
	if err != nil {
		return err
	}

	link.ID = uuid.New().String()
	link.CreatedAt = time.Now()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, patient_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, table, carerColumn)

	_, err = r.db.Exec(query, link.ID, link.CarerID, link.PatientID, link.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return ErrAlreadyLinked
			}
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	log.Printf("Created %s link: carer %s -> patient %s", link.Relation, link.CarerID, link.PatientID)

	if r.publisher != nil {
		event := messaging.PatientLinkedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventPatientLinked),
			Data: messaging.PatientLinkedData{
				LinkID:    link.ID,
				PatientID: link.PatientID,
				CarerID:   link.CarerID,
				Relation:  link.Relation,
				LinkedAt:  link.CreatedAt,
			},
		}

		if err := r.publisher.Publish(nil, messaging.EventPatientLinked, event); err != nil {
			log.Printf("Warning: failed to publish link.created event: %v", err)
		}
	}

	return nil
}

const linkedUserColumns = `u.id, u.keycloak_user_id, u.name, u.email, u.phone, u.role, u.profile_image_url, u.last_login, u.created_at, u.updated_at`

func (r *Repository) scanLinkedUsers(rows *sql.Rows, relation string) ([]LinkedUser, error) {
	var result []LinkedUser
	for rows.Next() {
		var lu LinkedUser
		var phone, profileImageURL sql.NullString
		var lastLogin, updatedAt sql.NullTime

		err := rows.Scan(
			&lu.LinkID,
			&lu.LinkedAt,
			&lu.User.ID,
			&lu.User.KeycloakUserID,
			&lu.User.Name,
			&lu.User.Email,
			&phone,
			&lu.User.Role,
			&profileImageURL,
			&lastLogin,
			&lu.User.CreatedAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan linked user: %w", err)
		}

		if phone.Valid {
			lu.User.Phone = phone.String
		}
		if profileImageURL.Valid {
			lu.User.ProfileImageURL = profileImageURL.String
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			lu.User.LastLogin = &t
		}
		if updatedAt.Valid {
			lu.User.UpdatedAt = updatedAt.Time
		}

		lu.Relation = relation
		result = append(result, lu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating linked users: %w", err)
	}

	return result, nil
}

// ListPatients returns the patients linked to a carer through one relation
func (r *Repository) ListPatients(carerID, relation string) ([]LinkedUser, error) {
	table, carerColumn, err := linkTable(relation)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.created_at, %s
		FROM %s l
		JOIN careconnect.users u ON u.id = l.patient_id
		WHERE l.%s = $1 AND u.deleted_at IS NULL
		ORDER BY u.name
	`, linkedUserColumns, table, carerColumn)

	rows, err := r.db.Query(query, carerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked patients: %w", err)
	}
	defer rows.Close()

	return r.scanLinkedUsers(rows, relation)
}

// ListMembers returns the caregivers and family members linked to a patient
func (r *Repository) ListMembers(patientID string) ([]LinkedUser, error) {
	var result []LinkedUser

	for _, relation := range []string{RelationCaregiver, RelationFamily} {
		table, carerColumn, err := linkTable(relation)
		if err != nil {
			return nil, err
		}

		query := fmt.Sprintf(`
			SELECT l.id, l.created_at, %s
			FROM %s l
			JOIN careconnect.users u ON u.id = l.%s
			WHERE l.patient_id = $1 AND u.deleted_at IS NULL
			ORDER BY u.name
		`, linkedUserColumns, table, carerColumn)

		rows, err := r.db.Query(query, patientID)
		if err != nil {
			return nil, fmt.Errorf("failed to list linked members: %w", err)
		}

		members, err := r.scanLinkedUsers(rows, relation)
		rows.Close()
		if err != nil {
			return nil, err
		}
		result = append(result, members...)
	}

	return result, nil
}

// PatientIDs returns the IDs of all patients linked to a carer
func (r *Repository) PatientIDs(carerID, relation string) ([]string, error) {
	table, carerColumn, err := linkTable(relation)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT patient_id FROM %s WHERE %s = $1`, table, carerColumn)

	rows, err := r.db.Query(query, carerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan patient ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patient IDs: %w", err)
	}

	return ids, nil
}

// CarerIDs returns everyone linked to a patient, caregivers and family
// members alike. Used for notification fan-out.
func (r *Repository) CarerIDs(patientID string) ([]string, error) {
	query := `
		SELECT caregiver_id FROM careconnect.caregiver_patients WHERE patient_id = $1
		UNION
		SELECT family_id FROM careconnect.family_patients WHERE patient_id = $1
	`

	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list carer IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan carer ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carer IDs: %w", err)
	}

	return ids, nil
}

// GetByID finds a link in either join table
func (r *Repository) GetByID(linkID string) (*Link, error) {
	query := `
		SELECT id, caregiver_id, patient_id, created_at, 'caregiver' AS relation
		FROM careconnect.caregiver_patients WHERE id = $1
		UNION ALL
		SELECT id, family_id, patient_id, created_at, 'family' AS relation
		FROM careconnect.family_patients WHERE id = $1
	`

	link := &Link{}
	err := r.db.QueryRow(query, linkID).Scan(
		&link.ID,
		&link.CarerID,
		&link.PatientID,
		&link.CreatedAt,
		&link.Relation,
	)
	if err == sql.ErrNoRows {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

// Delete removes the join row of the given link
func (r *Repository) Delete(link *Link) error {
	table, _, err := linkTable(link.Relation)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), link.ID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrLinkNotFound
	}

	log.Printf("Removed %s link: carer %s -> patient %s", link.Relation, link.CarerID, link.PatientID)

	if r.publisher != nil {
		event := messaging.PatientUnlinkedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventPatientUnlinked),
			Data: messaging.PatientUnlinkedData{
				LinkID:     link.ID,
				PatientID:  link.PatientID,
				CarerID:    link.CarerID,
				Relation:   link.Relation,
				UnlinkedAt: time.Now(),
			},
		}

		if err := r.publisher.Publish(nil, messaging.EventPatientUnlinked, event); err != nil {
			log.Printf("Warning: failed to publish link.removed event: %v", err)
		}
	}

	return nil
}
