package users

import (
	"context"
	"io"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/pagination"
)

// mockRepository implements RepositoryInterface for testing
type mockRepository struct {
	createFunc             func(user *User) error
	getByIDFunc            func(userID string) (*User, error)
	getByKeycloakIDFunc    func(keycloakUserID string) (*User, error)
	getByEmailFunc         func(email string) (*User, error)
	listWithPaginationFunc func(role string, limit, offset int, search string) ([]User, int, error)
	listByRoleFunc         func(role string) ([]User, error)
	updateFunc             func(user *User) error
	updateProfileImageFunc func(userID, url string) error
	touchLastLoginFunc     func(userID string) error
	deleteFunc             func(userID, role string) error
}

func (m *mockRepository) Create(user *User) error {
	if m.createFunc != nil {
		return m.createFunc(user)
	}
	return nil
}

func (m *mockRepository) GetByID(userID string) (*User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(userID)
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetByKeycloakID(keycloakUserID string) (*User, error) {
	if m.getByKeycloakIDFunc != nil {
		return m.getByKeycloakIDFunc(keycloakUserID)
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetByEmail(email string) (*User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(email)
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) ListWithPagination(role string, limit, offset int, search string) ([]User, int, error) {
	if m.listWithPaginationFunc != nil {
		return m.listWithPaginationFunc(role, limit, offset, search)
	}
	return nil, 0, nil
}

func (m *mockRepository) ListByRole(role string) ([]User, error) {
	if m.listByRoleFunc != nil {
		return m.listByRoleFunc(role)
	}
	return nil, nil
}

func (m *mockRepository) Update(user *User) error {
	if m.updateFunc != nil {
		return m.updateFunc(user)
	}
	return nil
}

func (m *mockRepository) UpdateProfileImage(userID, url string) error {
	if m.updateProfileImageFunc != nil {
		return m.updateProfileImageFunc(userID, url)
	}
	return nil
}

func (m *mockRepository) TouchLastLogin(userID string) error {
	if m.touchLastLoginFunc != nil {
		return m.touchLastLoginFunc(userID)
	}
	return nil
}

func (m *mockRepository) Delete(userID, role string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(userID, role)
	}
	return nil
}

// mockKeycloakAdmin implements KeycloakAdmin for testing
type mockKeycloakAdmin struct {
	createUserFunc      func(user auth.KeycloakUser) (string, error)
	getUserFunc         func(userID string) (*auth.KeycloakUser, error)
	updateUserFunc      func(userID string, user auth.KeycloakUser) error
	setPasswordFunc     func(userID, password string, temporary bool) error
	getRoleFunc         func(roleName string) (*auth.KeycloakRole, error)
	assignRoleFunc      func(userID string, role auth.KeycloakRole) error
	deleteUserFunc      func(userID string) error
	sendEmailActionFunc func(userID string, actions []string) error

	deletedUsers []string
}

func (m *mockKeycloakAdmin) CreateUser(user auth.KeycloakUser) (string, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(user)
	}
	return "keycloak-user-1", nil
}

func (m *mockKeycloakAdmin) GetUser(userID string) (*auth.KeycloakUser, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(userID)
	}
	return &auth.KeycloakUser{Username: "test@example.com"}, nil
}

func (m *mockKeycloakAdmin) UpdateUser(userID string, user auth.KeycloakUser) error {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(userID, user)
	}
	return nil
}

func (m *mockKeycloakAdmin) SetPassword(userID, password string, temporary bool) error {
	if m.setPasswordFunc != nil {
		return m.setPasswordFunc(userID, password, temporary)
	}
	return nil
}

func (m *mockKeycloakAdmin) GetRole(roleName string) (*auth.KeycloakRole, error) {
	if m.getRoleFunc != nil {
		return m.getRoleFunc(roleName)
	}
	return &auth.KeycloakRole{ID: "role-id", Name: roleName}, nil
}

func (m *mockKeycloakAdmin) AssignRole(userID string, role auth.KeycloakRole) error {
	if m.assignRoleFunc != nil {
		return m.assignRoleFunc(userID, role)
	}
	return nil
}

func (m *mockKeycloakAdmin) DeleteUser(userID string) error {
	m.deletedUsers = append(m.deletedUsers, userID)
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(userID)
	}
	return nil
}

func (m *mockKeycloakAdmin) SendEmailAction(userID string, actions []string) error {
	if m.sendEmailActionFunc != nil {
		return m.sendEmailActionFunc(userID, actions)
	}
	return nil
}

// mockAvatarStorage implements AvatarStorage for testing
type mockAvatarStorage struct {
	uploadFunc   func(ctx context.Context, userID, contentType string, r io.Reader) error
	downloadFunc func(ctx context.Context, userID string) (io.ReadCloser, string, error)
	deleteFunc   func(ctx context.Context, userID string) error
}

func (m *mockAvatarStorage) Upload(ctx context.Context, userID, contentType string, r io.Reader) error {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, userID, contentType, r)
	}
	return nil
}

func (m *mockAvatarStorage) Download(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, userID)
	}
	return nil, "", nil
}

func (m *mockAvatarStorage) Delete(ctx context.Context, userID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID)
	}
	return nil
}

func (m *mockAvatarStorage) PublicURL(userID string) string {
	return "https://storage.googleapis.com/test-bucket/avatars/" + userID
}

// mockService implements ServiceInterface for handler tests
type mockService struct {
	registerFunc        func(req RegisterRequest) (*User, error)
	resetPasswordFunc   func(req ResetPasswordRequest) error
	getMeFunc           func(principal *auth.Principal) (*User, error)
	updateMyProfileFunc func(req UpdateProfileRequest, principal *auth.Principal) (*User, error)
	uploadAvatarFunc    func(ctx context.Context, principal *auth.Principal, contentType string, r io.Reader) (string, error)
	getUserFunc         func(userID string) (*User, error)
	listUsersFunc       func(role string, params pagination.Params) (*PaginatedUserListResponse, error)
	updateUserFunc      func(userID string, req UpdateProfileRequest) (*User, error)
	deleteUserFunc      func(userID string, principal *auth.Principal) error
}

func (m *mockService) Register(req RegisterRequest) (*User, error) {
	return m.registerFunc(req)
}

func (m *mockService) ResetPassword(req ResetPasswordRequest) error {
	return m.resetPasswordFunc(req)
}

func (m *mockService) GetMe(principal *auth.Principal) (*User, error) {
	return m.getMeFunc(principal)
}

func (m *mockService) UpdateMyProfile(req UpdateProfileRequest, principal *auth.Principal) (*User, error) {
	return m.updateMyProfileFunc(req, principal)
}

func (m *mockService) UploadAvatar(ctx context.Context, principal *auth.Principal, contentType string, r io.Reader) (string, error) {
	return m.uploadAvatarFunc(ctx, principal, contentType, r)
}

func (m *mockService) GetUser(userID string) (*User, error) {
	return m.getUserFunc(userID)
}

func (m *mockService) ListUsers(role string, params pagination.Params) (*PaginatedUserListResponse, error) {
	return m.listUsersFunc(role, params)
}

func (m *mockService) UpdateUser(userID string, req UpdateProfileRequest) (*User, error) {
	return m.updateUserFunc(userID, req)
}

func (m *mockService) DeleteUser(userID string, principal *auth.Principal) error {
	return m.deleteUserFunc(userID, principal)
}
