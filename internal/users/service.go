package users

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/pagination"
)

// KeycloakAdmin captures the identity-provider operations the service needs
type KeycloakAdmin interface {
	CreateUser(user auth.KeycloakUser) (string, error)
	GetUser(userID string) (*auth.KeycloakUser, error)
	UpdateUser(userID string, user auth.KeycloakUser) error
	SetPassword(userID string, password string, temporary bool) error
	GetRole(roleName string) (*auth.KeycloakRole, error)
	AssignRole(userID string, role auth.KeycloakRole) error
	DeleteUser(userID string) error
	SendEmailAction(userID string, actions []string) error
}

// AvatarStorage captures the blob-store operations for profile images
type AvatarStorage interface {
	Upload(ctx context.Context, userID, contentType string, r io.Reader) error
	Download(ctx context.Context, userID string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, userID string) error
	PublicURL(userID string) string
}

type Service struct {
	repo          RepositoryInterface
	keycloakAdmin KeycloakAdmin
	avatars       AvatarStorage
}

func NewService(repo RepositoryInterface, keycloakAdmin KeycloakAdmin, avatars AvatarStorage) *Service {
	return &Service{
		repo:          repo,
		keycloakAdmin: keycloakAdmin,
		avatars:       avatars,
	}
}

// Register creates an account end-to-end: a Keycloak user with a permanent
// password and the chosen realm role, then the users row. Any failure after
// the Keycloak account exists rolls it back.
func (s *Service) Register(req RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	keycloakUser := auth.KeycloakUser{
		Username:  req.Email,
		Email:     req.Email,
		FirstName: req.Name,
		Enabled:   true,
	}

	keycloakUserID, err := s.keycloakAdmin.CreateUser(keycloakUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create user in Keycloak: %w", err)
	}

	if err := s.keycloakAdmin.SetPassword(keycloakUserID, req.Password, false); err != nil {
		log.Printf("Failed to set password, rolling back registration: %s", keycloakUserID)
		_ = s.keycloakAdmin.DeleteUser(keycloakUserID)
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	role, err := s.keycloakAdmin.GetRole(req.Role)
	if err != nil {
		log.Printf("Failed to get role, rolling back registration: %s", keycloakUserID)
		_ = s.keycloakAdmin.DeleteUser(keycloakUserID)
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	if err := s.keycloakAdmin.AssignRole(keycloakUserID, *role); err != nil {
		log.Printf("Failed to assign role, rolling back registration: %s", keycloakUserID)
		_ = s.keycloakAdmin.DeleteUser(keycloakUserID)
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	user := &User{
		KeycloakUserID: keycloakUserID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
	}

	if err := s.repo.Create(user); err != nil {
		log.Printf("Failed to create user in database, rolling back: %s", keycloakUserID)
		_ = s.keycloakAdmin.DeleteUser(keycloakUserID)
		return nil, err
	}

	log.Printf("Successfully registered user end-to-end: %s (Keycloak ID: %s, DB ID: %s)", req.Email, keycloakUserID, user.ID)

	return user, nil
}

// ResetPassword sends an UPDATE_PASSWORD email action for the account with
// the given email.
func (s *Service) ResetPassword(req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.repo.GetByEmail(req.Email)
	if err != nil {
		return err
	}

	if err := s.keycloakAdmin.SendEmailAction(user.KeycloakUserID, []string{"UPDATE_PASSWORD"}); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	log.Printf("Sent password reset email to: %s", req.Email)

	return nil
}

// GetMe resolves the caller's own profile and records the login time
func (s *Service) GetMe(principal *auth.Principal) (*User, error) {
	user, err := s.repo.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(user.ID); err != nil {
		log.Printf("Warning: failed to record last login for %s: %v", user.ID, err)
	}

	return user, nil
}

// UpdateMyProfile updates the caller's own profile and keeps the Keycloak
// representation in sync with the display name.
func (s *Service) UpdateMyProfile(req UpdateProfileRequest, principal *auth.Principal) (*User, error) {
	user, err := s.repo.GetByKeycloakID(principal.UserID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != user.Name {
		user.Name = req.Name

		keycloakUser, err := s.keycloakAdmin.GetUser(user.KeycloakUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user from Keycloak: %w", err)
		}
		keycloakUser.FirstName = req.Name

		if err := s.keycloakAdmin.UpdateUser(user.KeycloakUserID, *keycloakUser); err != nil {
			return nil, fmt.Errorf("failed to update user in Keycloak: %w", err)
		}
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	log.Printf("User updated their own profile: %s", user.ID)

	return user, nil
}

// UploadAvatar stores the profile image blob and persists its URL on the
// user row.
func (s *Service) UploadAvatar(ctx context.Context, principal *auth.Principal, contentType string, r io.Reader) (string, error) {
	user, err := s.repo.GetByKeycloakID(principal.UserID)
	if err != nil {
		return "", err
	}

	if err := s.avatars.Upload(ctx, user.ID, contentType, r); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	url := s.avatars.PublicURL(user.ID)
	if err := s.repo.UpdateProfileImage(user.ID, url); err != nil {
		return "", err
	}

	log.Printf("Uploaded avatar for user: %s", user.ID)

	return url, nil
}

func (s *Service) GetUser(userID string) (*User, error) {
	return s.repo.GetByID(userID)
}

// ListUsers retrieves users with pagination, optionally filtered by role
func (s *Service) ListUsers(role string, params pagination.Params) (*PaginatedUserListResponse, error) {
	params.Validate()

	users, totalCount, err := s.repo.ListWithPagination(role, params.Limit, params.CalculateOffset(), params.Search)
	if err != nil {
		return nil, err
	}

	return &PaginatedUserListResponse{
		Users:      users,
		Pagination: params.CalculateMeta(totalCount),
	}, nil
}

// UpdateUser updates another user's profile (admin operation)
func (s *Service) UpdateUser(userID string, req UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an account. Admins can delete anyone, everyone else
// only themselves.
func (s *Service) DeleteUser(userID string, principal *auth.Principal) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}

	if !principal.HasRole(RoleAdmin) && user.KeycloakUserID != principal.UserID {
		return ErrForbidden
	}

	if err := s.keycloakAdmin.DeleteUser(user.KeycloakUserID); err != nil {
		return fmt.Errorf("failed to delete user from Keycloak: %w", err)
	}

	if err := s.repo.Delete(userID, user.Role); err != nil {
		log.Printf("WARNING: User deleted from Keycloak but failed to delete from database: %s", userID)
		return err
	}

	if s.avatars != nil {
		if err := s.avatars.Delete(context.Background(), userID); err != nil {
			log.Printf("Warning: failed to delete avatar for %s: %v", userID, err)
		}
	}

	log.Printf("Successfully deleted user: %s (Keycloak ID: %s, Role: %s)", user.Email, user.KeycloakUserID, user.Role)

	return nil
}
