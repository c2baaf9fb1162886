package users

import (
	"strings"
	"time"

	"github.com/CareConnect-Health/care-service/internal/pagination"
)

// Roles known to the service
const (
	RoleAdmin      = "ADMIN"
	RoleCaregiver  = "CAREGIVER"
	RoleFamily     = "FAMILY"
	RoleOlderAdult = "OLDER_ADULT"
)

// User represents a user in the system
type User struct {
	ID              string     `json:"id"`
	KeycloakUserID  string     `json:"keycloakUserId"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role"`
	ProfileImageURL string     `json:"profileImageUrl,omitempty"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt,omitempty"`
}

// RegisterRequest represents a self-service registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateProfileRequest represents a profile update (own profile or by admin)
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ResetPasswordRequest requests a password reset email for an account
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// SelfServiceRoles defines which roles can be chosen at registration.
// ADMIN accounts are provisioned out of band.
var SelfServiceRoles = map[string]bool{
	RoleCaregiver:  true,
	RoleFamily:     true,
	RoleOlderAdult: true,
}

// Validate validates the registration request
func (r *RegisterRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return ErrMissingEmail
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	if r.Role == "" {
		return ErrMissingRole
	}
	if !SelfServiceRoles[r.Role] {
		return ErrRoleNotAllowed
	}
	return nil
}

// Validate validates the reset password request
func (r *ResetPasswordRequest) Validate() error {
	if r.Email == "" {
		return ErrMissingEmail
	}
	return nil
}

// PaginatedUserListResponse represents a paginated list of users
type PaginatedUserListResponse struct {
	Users      []User          `json:"users"`
	Pagination pagination.Meta `json:"pagination"`
}
