package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TestIssuer matches the issuer CreateTestVerifier configures
const TestIssuer = "https://test-keycloak.com/realms/careconnect"

// GenerateTestKeyPair generates an RSA key pair for signing test tokens
func GenerateTestKeyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

// GenerateTestJWT creates a valid bearer token with the given subject, email
// and realm roles
func GenerateTestJWT(t *testing.T, privateKey *rsa.PrivateKey, userID, email string, roles []string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   userID,
		"iss":   TestIssuer,
		"exp":   time.Now().Add(1 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
		"email": email,
		"realm_access": map[string]interface{}{
			"roles": interfaceSlice(roles),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "test-key-id"

	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	return tokenString
}

// GenerateAdminToken creates an ADMIN token for testing
func GenerateAdminToken(t *testing.T, privateKey *rsa.PrivateKey) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, "kc-admin-123", "admin@careconnect.test", []string{"ADMIN"})
}

// GenerateCaregiverToken creates a CAREGIVER token for testing
func GenerateCaregiverToken(t *testing.T, privateKey *rsa.PrivateKey, userID string) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, userID, "caregiver@careconnect.test", []string{"CAREGIVER"})
}

// GenerateFamilyToken creates a FAMILY token for testing
func GenerateFamilyToken(t *testing.T, privateKey *rsa.PrivateKey, userID string) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, userID, "family@careconnect.test", []string{"FAMILY"})
}

// GenerateOlderAdultToken creates an OLDER_ADULT token for testing
func GenerateOlderAdultToken(t *testing.T, privateKey *rsa.PrivateKey, userID string) string {
	t.Helper()
	return GenerateTestJWT(t, privateKey, userID, "patient@careconnect.test", []string{"OLDER_ADULT"})
}

// interfaceSlice converts []string to []interface{} for JWT claims
func interfaceSlice(strings []string) []interface{} {
	result := make([]interface{}, len(strings))
	for i, s := range strings {
		result[i] = s
	}
	return result
}
