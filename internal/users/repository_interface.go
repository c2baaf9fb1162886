package users

// RepositoryInterface defines the contract for user data access
type RepositoryInterface interface {
	Create(user *User) error
	GetByID(userID string) (*User, error)
	GetByKeycloakID(keycloakUserID string) (*User, error)
	GetByEmail(email string) (*User, error)
	ListWithPagination(role string, limit, offset int, search string) ([]User, int, error)
	ListByRole(role string) ([]User, error)
	Update(user *User) error
	UpdateProfileImage(userID, url string) error
	TouchLastLogin(userID string) error
	Delete(userID, role string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
