package carelink

import (
	"testing"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/users"
)

// mockRepository implements RepositoryInterface for testing
type mockRepository struct {
	createFunc       func(link *Link) error
	listPatientsFunc func(carerID, relation string) ([]LinkedUser, error)
	listMembersFunc  func(patientID string) ([]LinkedUser, error)
	patientIDsFunc   func(carerID, relation string) ([]string, error)
	carerIDsFunc     func(patientID string) ([]string, error)
	getByIDFunc      func(linkID string) (*Link, error)
	deleteFunc       func(link *Link) error
}

func (m *mockRepository) Create(link *Link) error {
	if m.createFunc != nil {
		return m.createFunc(link)
	}
	return nil
}

func (m *mockRepository) ListPatients(carerID, relation string) ([]LinkedUser, error) {
	if m.listPatientsFunc != nil {
		return m.listPatientsFunc(carerID, relation)
	}
	return nil, nil
}

func (m *mockRepository) ListMembers(patientID string) ([]LinkedUser, error) {
	if m.listMembersFunc != nil {
		return m.listMembersFunc(patientID)
	}
	return nil, nil
}

func (m *mockRepository) PatientIDs(carerID, relation string) ([]string, error) {
	if m.patientIDsFunc != nil {
		return m.patientIDsFunc(carerID, relation)
	}
	return nil, nil
}

func (m *mockRepository) CarerIDs(patientID string) ([]string, error) {
	if m.carerIDsFunc != nil {
		return m.carerIDsFunc(patientID)
	}
	return nil, nil
}

func (m *mockRepository) GetByID(linkID string) (*Link, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(linkID)
	}
	return nil, ErrLinkNotFound
}

func (m *mockRepository) Delete(link *Link) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(link)
	}
	return nil
}

// mockUserDirectory implements UserDirectory for testing
type mockUserDirectory struct {
	byEmail    map[string]*users.User
	byKeycloak map[string]*users.User
}

func (m *mockUserDirectory) GetByEmail(email string) (*users.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func (m *mockUserDirectory) GetByKeycloakID(keycloakUserID string) (*users.User, error) {
	if u, ok := m.byKeycloak[keycloakUserID]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func directoryWith(requester, target *users.User) *mockUserDirectory {
	dir := &mockUserDirectory{
		byEmail:    map[string]*users.User{},
		byKeycloak: map[string]*users.User{},
	}
	dir.byKeycloak[requester.KeycloakUserID] = requester
	if target != nil {
		dir.byEmail[target.Email] = target
	}
	return dir
}

// TestCreateLink_CaregiverLinksPatient tests the carer-initiated direction
func TestCreateLink_CaregiverLinksPatient(t *testing.T) {
	caregiver := &users.User{ID: "carer-1", KeycloakUserID: "kc-carer", Role: users.RoleCaregiver}
	patient := &users.User{ID: "patient-1", Email: "oma@example.com", Role: users.RoleOlderAdult}

	var created *Link
	repo := &mockRepository{
		createFunc: func(link *Link) error {
			link.ID = "link-1"
			created = link
			return nil
		},
	}

	service := NewService(repo, directoryWith(caregiver, patient))

	link, err := service.CreateLink(CreateLinkRequest{Email: "oma@example.com"}, &auth.Principal{UserID: "kc-carer"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if link.CarerID != "carer-1" || link.PatientID != "patient-1" {
		t.Errorf("Unexpected link direction: %+v", link)
	}
	if created.Relation != RelationCaregiver {
		t.Errorf("Expected caregiver relation, got '%s'", created.Relation)
	}
}

// TestCreateLink_PatientLinksFamily tests the patient-initiated direction
func TestCreateLink_PatientLinksFamily(t *testing.T) {
	patient := &users.User{ID: "patient-1", KeycloakUserID: "kc-patient", Role: users.RoleOlderAdult}
	family := &users.User{ID: "family-1", Email: "dochter@example.com", Role: users.RoleFamily}

	repo := &mockRepository{
		createFunc: func(link *Link) error {
			link.ID = "link-2"
			return nil
		},
	}

	service := NewService(repo, directoryWith(patient, family))

	link, err := service.CreateLink(CreateLinkRequest{Email: "dochter@example.com"}, &auth.Principal{UserID: "kc-patient"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if link.CarerID != "family-1" || link.PatientID != "patient-1" {
		t.Errorf("Unexpected link direction: %+v", link)
	}
	if link.Relation != RelationFamily {
		t.Errorf("Expected family relation, got '%s'", link.Relation)
	}
}

// TestCreateLink_RoleMismatch tests that two carers cannot link each other
func TestCreateLink_RoleMismatch(t *testing.T) {
	caregiver := &users.User{ID: "carer-1", KeycloakUserID: "kc-carer", Role: users.RoleCaregiver}
	other := &users.User{ID: "carer-2", Email: "other@example.com", Role: users.RoleFamily}

	service := NewService(&mockRepository{}, directoryWith(caregiver, other))

	_, err := service.CreateLink(CreateLinkRequest{Email: "other@example.com"}, &auth.Principal{UserID: "kc-carer"})
	if err != ErrRoleMismatch {
		t.Errorf("Expected ErrRoleMismatch, got: %v", err)
	}
}

// TestCreateLink_UnknownEmail tests the lookup failure path
func TestCreateLink_UnknownEmail(t *testing.T) {
	caregiver := &users.User{ID: "carer-1", KeycloakUserID: "kc-carer", Role: users.RoleCaregiver}

	service := NewService(&mockRepository{}, directoryWith(caregiver, nil))

	_, err := service.CreateLink(CreateLinkRequest{Email: "nobody@example.com"}, &auth.Principal{UserID: "kc-carer"})
	if err != ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

// TestCreateLink_DuplicateSurfacesAlreadyLinked tests that a second attempt
// on the same pair yields "already linked". The uniqueness constraint closes
// the race the old client-side existence check left open.
func TestCreateLink_DuplicateSurfacesAlreadyLinked(t *testing.T) {
	caregiver := &users.User{ID: "carer-1", KeycloakUserID: "kc-carer", Role: users.RoleCaregiver}
	patient := &users.User{ID: "patient-1", Email: "oma@example.com", Role: users.RoleOlderAdult}

	calls := 0
	repo := &mockRepository{
		createFunc: func(link *Link) error {
			calls++
			if calls > 1 {
				return ErrAlreadyLinked
			}
			link.ID = "link-1"
			return nil
		},
	}

	service := NewService(repo, directoryWith(caregiver, patient))

	principal := &auth.Principal{UserID: "kc-carer"}
	if _, err := service.CreateLink(CreateLinkRequest{Email: "oma@example.com"}, principal); err != nil {
		t.Fatalf("First link failed: %v", err)
	}

	_, err := service.CreateLink(CreateLinkRequest{Email: "oma@example.com"}, principal)
	if err != ErrAlreadyLinked {
		t.Errorf("Expected ErrAlreadyLinked on second attempt, got: %v", err)
	}
}

// TestCreateLink_SelfLinkRejected tests that a user cannot link themselves
func TestCreateLink_SelfLinkRejected(t *testing.T) {
	patient := &users.User{ID: "patient-1", KeycloakUserID: "kc-patient", Email: "oma@example.com", Role: users.RoleOlderAdult}

	dir := directoryWith(patient, patient)
	service := NewService(&mockRepository{}, dir)

	_, err := service.CreateLink(CreateLinkRequest{Email: "oma@example.com"}, &auth.Principal{UserID: "kc-patient"})
	if err != ErrSelfLink {
		t.Errorf("Expected ErrSelfLink, got: %v", err)
	}
}

// TestUnlink_OnlyParticipantsMayRemove tests the ownership check
func TestUnlink_OnlyParticipantsMayRemove(t *testing.T) {
	stranger := &users.User{ID: "stranger-1", KeycloakUserID: "kc-stranger", Role: users.RoleCaregiver}

	repo := &mockRepository{
		getByIDFunc: func(linkID string) (*Link, error) {
			return &Link{ID: linkID, CarerID: "carer-1", PatientID: "patient-1", Relation: RelationCaregiver}, nil
		},
	}

	service := NewService(repo, directoryWith(stranger, nil))

	err := service.Unlink("link-1", &auth.Principal{UserID: "kc-stranger"})
	if err != ErrForbidden {
		t.Errorf("Expected ErrForbidden, got: %v", err)
	}
}

// TestUnlink_ParticipantRemoves tests a successful unlink by the patient
func TestUnlink_ParticipantRemoves(t *testing.T) {
	patient := &users.User{ID: "patient-1", KeycloakUserID: "kc-patient", Role: users.RoleOlderAdult}

	var deleted *Link
	repo := &mockRepository{
		getByIDFunc: func(linkID string) (*Link, error) {
			return &Link{ID: linkID, CarerID: "carer-1", PatientID: "patient-1", Relation: RelationCaregiver}, nil
		},
		deleteFunc: func(link *Link) error {
			deleted = link
			return nil
		},
	}

	service := NewService(repo, directoryWith(patient, nil))

	if err := service.Unlink("link-1", &auth.Principal{UserID: "kc-patient"}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if deleted == nil || deleted.ID != "link-1" {
		t.Errorf("Expected deletion of link-1, got: %+v", deleted)
	}
}

// TestListPatients_UsesRequesterRelation tests relation resolution
func TestListPatients_UsesRequesterRelation(t *testing.T) {
	family := &users.User{ID: "family-1", KeycloakUserID: "kc-family", Role: users.RoleFamily}

	repo := &mockRepository{
		listPatientsFunc: func(carerID, relation string) ([]LinkedUser, error) {
			if carerID != "family-1" {
				t.Errorf("Expected carer 'family-1', got '%s'", carerID)
			}
			if relation != RelationFamily {
				t.Errorf("Expected relation '%s', got '%s'", RelationFamily, relation)
			}
			return []LinkedUser{{LinkID: "link-1"}}, nil
		},
	}

	service := NewService(repo, directoryWith(family, nil))

	patients, err := service.ListPatients(&auth.Principal{UserID: "kc-family"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(patients) != 1 {
		t.Errorf("Expected one linked patient, got %d", len(patients))
	}
}

// TestListMembers_PatientOnly tests that only patients list their members
func TestListMembers_PatientOnly(t *testing.T) {
	caregiver := &users.User{ID: "carer-1", KeycloakUserID: "kc-carer", Role: users.RoleCaregiver}

	service := NewService(&mockRepository{}, directoryWith(caregiver, nil))

	_, err := service.ListMembers(&auth.Principal{UserID: "kc-carer"})
	if err != ErrRoleMismatch {
		t.Errorf("Expected ErrRoleMismatch, got: %v", err)
	}
}
