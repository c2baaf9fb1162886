package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/pagination"
	"github.com/CareConnect-Health/care-service/internal/storage"
	"github.com/gorilla/mux"
)

func avatarUploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename)},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("Failed to create form part: %v", err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest("PUT", "/me/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(auth.ContextWithPrincipal(req.Context(), &auth.Principal{UserID: "kc-1"}))
}

func TestRegisterHandler_Success(t *testing.T) {
	service := &mockService{
		registerFunc: func(req RegisterRequest) (*User, error) {
			return &User{ID: "user-1", Name: req.Name, Email: req.Email, Role: req.Role}, nil
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(RegisterRequest{
		Name:     "Anna",
		Email:    "anna@example.com",
		Password: "secret123",
		Role:     RoleOlderAdult,
	})

	req := httptest.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var user User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("Expected user-1, got '%s'", user.ID)
	}
}

func TestRegisterHandler_RoleNotAllowed(t *testing.T) {
	service := &mockService{
		registerFunc: func(req RegisterRequest) (*User, error) {
			return nil, ErrRoleNotAllowed
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(RegisterRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "secret123",
		Role:     RoleAdmin,
	})

	req := httptest.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestRegisterHandler_EmailTakenConflict(t *testing.T) {
	service := &mockService{
		registerFunc: func(req RegisterRequest) (*User, error) {
			return nil, ErrEmailTaken
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(RegisterRequest{
		Name:     "Anna",
		Email:    "anna@example.com",
		Password: "secret123",
		Role:     RoleCaregiver,
	})

	req := httptest.NewRequest("POST", "/auth/register", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestResetPasswordHandler_HidesUnknownEmail(t *testing.T) {
	service := &mockService{
		resetPasswordFunc: func(req ResetPasswordRequest) error {
			return ErrUserNotFound
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(ResetPasswordRequest{Email: "nobody@example.com"})
	req := httptest.NewRequest("POST", "/auth/reset-password", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	handler.ResetPassword(rec, req)

	// Unknown accounts must be indistinguishable from known ones
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestGetMeHandler_Unauthorized(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest("GET", "/me", nil)
	rec := httptest.NewRecorder()

	handler.GetMe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetMeHandler_Success(t *testing.T) {
	service := &mockService{
		getMeFunc: func(principal *auth.Principal) (*User, error) {
			return &User{ID: "user-1", Name: "Anna", Role: RoleOlderAdult}, nil
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest("GET", "/me", nil)
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), &auth.Principal{UserID: "kc-1"}))
	rec := httptest.NewRecorder()

	handler.GetMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var user User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.Name != "Anna" {
		t.Errorf("Expected name 'Anna', got '%s'", user.Name)
	}
}

func TestListUsersHandler_PassesRoleFilter(t *testing.T) {
	service := &mockService{
		listUsersFunc: func(role string, params pagination.Params) (*PaginatedUserListResponse, error) {
			if role != RoleCaregiver {
				t.Errorf("Expected role '%s', got '%s'", RoleCaregiver, role)
			}
			return &PaginatedUserListResponse{
				Users:      []User{{ID: "user-1"}},
				Pagination: params.CalculateMeta(1),
			}, nil
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest("GET", "/users?role=CAREGIVER&page=1&limit=20", nil)
	rec := httptest.NewRecorder()

	handler.ListUsers(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
}

func TestDeleteUserHandler_Forbidden(t *testing.T) {
	service := &mockService{
		deleteUserFunc: func(userID string, principal *auth.Principal) error {
			return ErrForbidden
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest("DELETE", "/users/user-2", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "user-2"})
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), &auth.Principal{UserID: "kc-1"}))
	rec := httptest.NewRecorder()

	handler.DeleteUser(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDeleteUserHandler_NoContent(t *testing.T) {
	service := &mockService{
		deleteUserFunc: func(userID string, principal *auth.Principal) error {
			return nil
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest("DELETE", "/users/user-1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "user-1"})
	req = req.WithContext(auth.ContextWithPrincipal(req.Context(), &auth.Principal{UserID: "kc-1"}))
	rec := httptest.NewRecorder()

	handler.DeleteUser(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestUploadAvatarHandler_Success(t *testing.T) {
	service := &mockService{
		uploadAvatarFunc: func(ctx context.Context, principal *auth.Principal, contentType string, r io.Reader) (string, error) {
			return "https://avatars.careconnect.test/user-1", nil
		},
	}
	handler := NewHandler(service)

	req := avatarUploadRequest(t, "avatar.png", "image/png", []byte("png bytes"))
	rec := httptest.NewRecorder()

	handler.UploadAvatar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["profileImageUrl"] != "https://avatars.careconnect.test/user-1" {
		t.Errorf("Unexpected URL %q", response["profileImageUrl"])
	}
}

func TestUploadAvatarHandler_TooLarge(t *testing.T) {
	service := &mockService{
		uploadAvatarFunc: func(ctx context.Context, principal *auth.Principal, contentType string, r io.Reader) (string, error) {
			return "", fmt.Errorf("failed to upload avatar: %w", storage.ErrAvatarTooLarge)
		},
	}
	handler := NewHandler(service)

	req := avatarUploadRequest(t, "huge.png", "image/png", []byte("png bytes"))
	rec := httptest.NewRecorder()

	handler.UploadAvatar(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", rec.Code)
	}
}

func TestUploadAvatarHandler_RejectsNonImage(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := avatarUploadRequest(t, "avatar.gif", "image/gif", []byte("gif bytes"))
	rec := httptest.NewRecorder()

	handler.UploadAvatar(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected status 415, got %d", rec.Code)
	}
}
