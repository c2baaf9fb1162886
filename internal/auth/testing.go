package auth

import (
	"context"
	"crypto/rsa"
)

// ContextWithPrincipal adds a principal to the context for testing purposes.
// This is exported to allow other packages to create test contexts.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// NewTestJWKS builds a JWKS seeded with a single public key under the
// well-known "test-key-id" kid, without any background refresh.
func NewTestJWKS(pub *rsa.PublicKey) *JWKS {
	return &JWKS{
		keys: map[string]*rsa.PublicKey{"test-key-id": pub},
	}
}
