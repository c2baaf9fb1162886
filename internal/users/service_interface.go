package users

import (
	"context"
	"io"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/pagination"
)

// ServiceInterface defines the contract for user business logic operations
type ServiceInterface interface {
	Register(req RegisterRequest) (*User, error)
	ResetPassword(req ResetPasswordRequest) error
	GetMe(principal *auth.Principal) (*User, error)
	UpdateMyProfile(req UpdateProfileRequest, principal *auth.Principal) (*User, error)
	UploadAvatar(ctx context.Context, principal *auth.Principal, contentType string, r io.Reader) (string, error)
	GetUser(userID string) (*User, error)
	ListUsers(role string, params pagination.Params) (*PaginatedUserListResponse, error)
	UpdateUser(userID string, req UpdateProfileRequest) (*User, error)
	DeleteUser(userID string, principal *auth.Principal) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
