package users

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

const userColumns = `id, keycloak_user_id, name, email, phone, role, profile_image_url, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	user := &User{}
	var phone, profileImageURL sql.NullString
	var lastLogin, updatedAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.KeycloakUserID,
		&user.Name,
		&user.Email,
		&phone,
		&user.Role,
		&profileImageURL,
		&lastLogin,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		user.Phone = phone.String
	}
	if profileImageURL.Valid {
		user.ProfileImageURL = profileImageURL.String
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}

	return user, nil
}

func (r *Repository) Create(user *User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()

	query := `
		INSERT INTO careconnect.users (id, keycloak_user_id, name, email, phone, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(query,
		user.ID,
		user.KeycloakUserID,
		user.Name,
		user.Email,
		user.Phone,
		user.Role,
		user.CreatedAt,
	)

	if err != nil {
		// 23505 is the unique_violation class, the email column carries the
		// only unique constraint besides the PK
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user in database: %w", err)
	}

	log.Printf("Created user in database: %s (%s, role: %s)", user.Name, user.Email, user.Role)

	if r.publisher != nil {
		event := messaging.UserRegisteredEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventUserRegistered),
			Data: messaging.UserRegisteredData{
				UserID:         user.ID,
				KeycloakUserID: user.KeycloakUserID,
				Email:          user.Email,
				Name:           user.Name,
				Role:           user.Role,
				CreatedAt:      user.CreatedAt,
			},
		}

		if err := r.publisher.Publish(nil, messaging.EventUserRegistered, event); err != nil {
			log.Printf("Warning: failed to publish user.registered event: %v", err)
		}
	}

	return nil
}

func (r *Repository) GetByID(userID string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.users
		WHERE id = $1 AND deleted_at IS NULL
	`, userColumns)

	user, err := scanUser(r.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *Repository) GetByKeycloakID(keycloakUserID string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.users
		WHERE keycloak_user_id = $1 AND deleted_at IS NULL
	`, userColumns)

	user, err := scanUser(r.db.QueryRow(query, keycloakUserID))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *Repository) GetByEmail(email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.users
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
	`, userColumns)

	user, err := scanUser(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListWithPagination retrieves active users with pagination support. An empty
// role matches all roles; search matches on name or email.
func (r *Repository) ListWithPagination(role string, limit, offset int, search string) ([]User, int, error) {
	where := `deleted_at IS NULL
		AND ($1 = '' OR role = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`

	var totalCount int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM careconnect.users WHERE %s`, where)
	err := r.db.QueryRow(countQuery, role, search).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userColumns, where)

	rows, err := r.db.Query(query, role, search, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	return users, totalCount, nil
}

// ListByRole returns every active user with the given role
func (r *Repository) ListByRole(role string) ([]User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM careconnect.users
		WHERE role = $1 AND deleted_at IS NULL
		ORDER BY name
	`, userColumns)

	rows, err := r.db.Query(query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *Repository) Update(user *User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE careconnect.users
		SET name = $1, phone = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Name, user.Phone, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	log.Printf("Updated user in database: %s (%s)", user.Name, user.ID)

	return nil
}

// UpdateProfileImage persists the blob URL of the user's uploaded avatar
func (r *Repository) UpdateProfileImage(userID, url string) error {
	query := `
		UPDATE careconnect.users
		SET profile_image_url = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, url, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// TouchLastLogin records the time of the user's latest authenticated request
func (r *Repository) TouchLastLogin(userID string) error {
	query := `
		UPDATE careconnect.users
		SET last_login = $1
		WHERE id = $2 AND deleted_at IS NULL
	`

	if _, err := r.db.Exec(query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *Repository) Delete(userID, role string) error {
	// Soft delete: set deleted_at timestamp
	query := `
		UPDATE careconnect.users
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`

	deletedAt := time.Now()
	result, err := r.db.Exec(query, deletedAt, userID)
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	if r.publisher != nil {
		event := messaging.UserDeletedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventUserDeleted),
			Data: messaging.UserDeletedData{
				UserID:    userID,
				Role:      role,
				DeletedAt: deletedAt,
			},
		}

		if err := r.publisher.Publish(nil, messaging.EventUserDeleted, event); err != nil {
			log.Printf("Warning: failed to publish user.deleted event: %v", err)
		}
	}

	log.Printf("Deleted user from database: %s", userID)

	return nil
}
