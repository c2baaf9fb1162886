package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	ErrKeycloakRequest = errors.New("keycloak request failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUserNotFound    = errors.New("user not found")
	ErrRoleNotFound    = errors.New("role not found")
	ErrInvalidResponse = errors.New("invalid response from keycloak")
)

// KeycloakAdminClient handles administrative operations in Keycloak: account
// creation during registration, password resets, and account deletion.
type KeycloakAdminClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	tokenMux    sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// KeycloakUser represents a user in Keycloak
type KeycloakUser struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Enabled   bool   `json:"enabled"`
}

// KeycloakRole represents a realm role in Keycloak
type KeycloakRole struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewKeycloakAdminClient creates a new Keycloak admin client
func NewKeycloakAdminClient() (*KeycloakAdminClient, error) {
	baseURL := os.Getenv("KEYCLOAK_BASE_URL")
	realm := os.Getenv("KEYCLOAK_REALM")
	clientID := os.Getenv("KEYCLOAK_ADMIN_CLIENT_ID")
	clientSecret := os.Getenv("KEYCLOAK_ADMIN_CLIENT_SECRET")

	if baseURL == "" || realm == "" || clientID == "" || clientSecret == "" {
		return nil, errors.New("missing required Keycloak admin configuration")
	}

	return &KeycloakAdminClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// getAdminToken obtains an admin access token using client credentials
func (k *KeycloakAdminClient) getAdminToken() (string, error) {
	k.tokenMux.RLock()
	if k.accessToken != "" && time.Now().Before(k.tokenExpiry) {
		token := k.accessToken
		k.tokenMux.RUnlock()
		return token, nil
	}
	k.tokenMux.RUnlock()

	k.tokenMux.Lock()
	defer k.tokenMux.Unlock()

	// Double check after acquiring write lock
	if k.accessToken != "" && time.Now().Before(k.tokenExpiry) {
		return k.accessToken, nil
	}

	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", k.baseURL, k.realm)

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", k.clientID)
	data.Set("client_secret", k.clientSecret)

	req, err := http.NewRequest("POST", tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("Failed to get admin token: %d - %s", resp.StatusCode, string(body))
		return "", ErrUnauthorized
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	// Store token with 60 second buffer before expiry
	k.accessToken = result.AccessToken
	k.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-60) * time.Second)

	return k.accessToken, nil
}

// do performs an authenticated admin API request and checks the expected status.
func (k *KeycloakAdminClient) do(method, path string, payload interface{}, wantStatus int) (*http.Response, error) {
	token, err := k.getAdminToken()
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s/admin/realms/%s%s", k.baseURL, k.realm, path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keycloak request failed: %w", err)
	}

	if resp.StatusCode != wantStatus {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		log.Printf("Keycloak %s %s failed: %d - %s", method, path, resp.StatusCode, string(b))
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: status %d", ErrKeycloakRequest, resp.StatusCode)
	}

	return resp, nil
}

// CreateUser creates a new user in Keycloak and returns its ID.
func (k *KeycloakAdminClient) CreateUser(user KeycloakUser) (string, error) {
	resp, err := k.do("POST", "/users", user, http.StatusCreated)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// User ID comes back in the Location header: .../users/{userId}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrInvalidResponse
	}
	parts := strings.Split(location, "/")
	userID := parts[len(parts)-1]
	if userID == "" {
		return "", ErrInvalidResponse
	}

	log.Printf("Created user in Keycloak: %s (ID: %s)", user.Username, userID)
	return userID, nil
}

// GetUser fetches a user representation from Keycloak
func (k *KeycloakAdminClient) GetUser(userID string) (*KeycloakUser, error) {
	resp, err := k.do("GET", "/users/"+userID, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var user KeycloakUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// UpdateUser updates a user's representation in Keycloak
func (k *KeycloakAdminClient) UpdateUser(userID string, user KeycloakUser) error {
	resp, err := k.do("PUT", "/users/"+userID, user, http.StatusNoContent)
	if err != nil {
		return err
	}
	resp.Body.Close()
	log.Printf("Updated user in Keycloak: %s", userID)
	return nil
}

// SetPassword sets or resets a user's password
func (k *KeycloakAdminClient) SetPassword(userID string, password string, temporary bool) error {
	payload := map[string]interface{}{
		"type":      "password",
		"value":     password,
		"temporary": temporary,
	}
	resp, err := k.do("PUT", fmt.Sprintf("/users/%s/reset-password", userID), payload, http.StatusNoContent)
	if err != nil {
		return err
	}
	resp.Body.Close()
	log.Printf("Set password for user %s (temporary: %v)", userID, temporary)
	return nil
}

// GetRole fetches a realm role by name
func (k *KeycloakAdminClient) GetRole(roleName string) (*KeycloakRole, error) {
	resp, err := k.do("GET", "/roles/"+roleName, nil, http.StatusOK)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	defer resp.Body.Close()

	var role KeycloakRole
	if err := json.NewDecoder(resp.Body).Decode(&role); err != nil {
		return nil, fmt.Errorf("failed to decode role: %w", err)
	}
	return &role, nil
}

// AssignRole assigns a realm role to a user
func (k *KeycloakAdminClient) AssignRole(userID string, role KeycloakRole) error {
	// Must be an array of roles
	resp, err := k.do("POST", fmt.Sprintf("/users/%s/role-mappings/realm", userID), []KeycloakRole{role}, http.StatusNoContent)
	if err != nil {
		return err
	}
	resp.Body.Close()
	log.Printf("Assigned role %s to user %s", role.Name, userID)
	return nil
}

// DeleteUser deletes a user from Keycloak (also used for rollback when a
// registration step fails after the account has been created).
func (k *KeycloakAdminClient) DeleteUser(userID string) error {
	resp, err := k.do("DELETE", "/users/"+userID, nil, http.StatusNoContent)
	if err != nil {
		// Gone already is fine for rollback purposes
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}
	resp.Body.Close()
	log.Printf("Deleted user from Keycloak: %s", userID)
	return nil
}

// SendEmailAction sends an email action to a user (e.g., UPDATE_PASSWORD)
func (k *KeycloakAdminClient) SendEmailAction(userID string, actions []string) error {
	resp, err := k.do("PUT", fmt.Sprintf("/users/%s/execute-actions-email", userID), actions, http.StatusNoContent)
	if err != nil {
		return err
	}
	resp.Body.Close()
	log.Printf("Sent email action to user %s: %v", userID, actions)
	return nil
}
