// Package auth gates admin-only actions behind a swappable credential check.
package auth

import (
	"context"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Authorizer decides whether a presented credential grants admin rights.
type Authorizer interface {
	Authorize(ctx context.Context, credential string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, credential string) bool

// Authorize calls f.
func (f AuthorizerFunc) Authorize(ctx context.Context, credential string) bool {
	return f(ctx, credential)
}

// StaticSecret compares against a shared plain-text secret.
type StaticSecret struct {
	secret []byte
}

// NewStaticSecret returns an Authorizer for secret. An empty secret denies
// every credential.
func NewStaticSecret(secret string) *StaticSecret {
	return &StaticSecret{secret: []byte(secret)}
}

// Authorize reports whether credential equals the secret.
func (s *StaticSecret) Authorize(_ context.Context, credential string) bool {
	if len(s.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(s.secret, []byte(credential)) == 1
}

// BcryptHash compares against a bcrypt hash of the secret.
type BcryptHash struct {
	hash []byte
}

// NewBcryptHash returns an Authorizer for a bcrypt hash.
func NewBcryptHash(hash string) *BcryptHash {
	return &BcryptHash{hash: []byte(hash)}
}

// Authorize reports whether credential matches the hash.
func (b *BcryptHash) Authorize(_ context.Context, credential string) bool {
	if len(b.hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(b.hash, []byte(credential)) == nil
}

// New picks the bcrypt authorizer when hash is set, else the static secret.
func New(secret, hash string) Authorizer {
	if hash != "" {
		return NewBcryptHash(hash)
	}
	return NewStaticSecret(secret)
}

// Deny rejects every credential.
var Deny Authorizer = AuthorizerFunc(func(context.Context, string) bool { return false })
