//go:build integration

package e2e

import (
	"crypto/rsa"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CareConnect-Health/care-service/internal/auth"
	httpserver "github.com/CareConnect-Health/care-service/internal/http"
	"github.com/CareConnect-Health/care-service/internal/testutil"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// TestServer is a complete e2e environment: a real database behind the full
// router, with the identity provider, blob store and message bus mocked in
// memory.
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	MockKeycloak  *testutil.MockKeycloakAdmin
	PrivateKey    *rsa.PrivateKey
}

// SetupE2ETest builds the environment. Skipped unless TEST_DATABASE_URL is
// set.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	mockPublisher := testutil.NewMockPublisher()
	mockKeycloak := testutil.NewMockKeycloakAdmin()
	mockAvatars := testutil.NewMockAvatarStore()

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	verifier, privateKey := testutil.CreateTestVerifier(t)

	router := httpserver.SetupRouterWithKeycloak(db, verifier, perms, mockPublisher, mockAvatars, nil, mockKeycloak)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:        server,
		DB:            db,
		MockPublisher: mockPublisher,
		MockKeycloak:  mockKeycloak,
		PrivateKey:    privateKey,
	}
}

// RegisterUser registers an account through the public endpoint and returns
// the created user together with a bearer token for it.
func (ts *TestServer) RegisterUser(t *testing.T, name, email, role string) (users.User, string) {
	t.Helper()

	resp, body := testutil.DoRequest(t, ts.Server.URL, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "test-password-123",
		"role":     role,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Registration of %s failed with %d: %s", email, resp.StatusCode, string(body))
	}

	var user users.User
	testutil.DecodeJSON(t, body, &user)

	token := testutil.GenerateTestJWT(t, ts.PrivateKey, user.KeycloakUserID, email, []string{role})
	return user, token
}
