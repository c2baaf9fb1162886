package testutil

import (
	"fmt"
	"sync"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// MockKeycloakAdmin is an in-memory identity provider for e2e tests. It
// hands out deterministic IDs and records every call.
type MockKeycloakAdmin struct {
	mu sync.Mutex

	nextID       int
	Users        map[string]auth.KeycloakUser
	Passwords    map[string]string
	Roles        map[string][]string
	EmailActions map[string][]string
	Deleted      []string
}

var _ users.KeycloakAdmin = (*MockKeycloakAdmin)(nil)

func NewMockKeycloakAdmin() *MockKeycloakAdmin {
	return &MockKeycloakAdmin{
		Users:        map[string]auth.KeycloakUser{},
		Passwords:    map[string]string{},
		Roles:        map[string][]string{},
		EmailActions: map[string][]string{},
	}
}

func (m *MockKeycloakAdmin) CreateUser(user auth.KeycloakUser) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("kc-user-%d", m.nextID)
	m.Users[id] = user
	return id, nil
}

func (m *MockKeycloakAdmin) GetUser(userID string) (*auth.KeycloakUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.Users[userID]
	if !ok {
		return nil, fmt.Errorf("keycloak user %s not found", userID)
	}
	return &user, nil
}

func (m *MockKeycloakAdmin) UpdateUser(userID string, user auth.KeycloakUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Users[userID]; !ok {
		return fmt.Errorf("keycloak user %s not found", userID)
	}
	m.Users[userID] = user
	return nil
}

func (m *MockKeycloakAdmin) SetPassword(userID string, password string, temporary bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Passwords[userID] = password
	return nil
}

func (m *MockKeycloakAdmin) GetRole(roleName string) (*auth.KeycloakRole, error) {
	return &auth.KeycloakRole{ID: "role-" + roleName, Name: roleName}, nil
}

func (m *MockKeycloakAdmin) AssignRole(userID string, role auth.KeycloakRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Roles[userID] = append(m.Roles[userID], role.Name)
	return nil
}

func (m *MockKeycloakAdmin) DeleteUser(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Users, userID)
	m.Deleted = append(m.Deleted, userID)
	return nil
}

func (m *MockKeycloakAdmin) SendEmailAction(userID string, actions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EmailActions[userID] = append(m.EmailActions[userID], actions...)
	return nil
}
