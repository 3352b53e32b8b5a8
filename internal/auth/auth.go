// Package auth authorizes HTTP requests carrying Basic credentials against
// a static credential store.
package auth

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/arkilian/tsddl/internal/errors"
)

// AnonymousUser is the user every request runs as when no provider is configured.
const AnonymousUser = "anonymous"

// UserInfo identifies an authorized caller.
type UserInfo struct {
	Username string
}

// UserProvider checks a username and password pair.
type UserProvider interface {
	Authenticate(username, password string) (*UserInfo, error)
}

// CredentialsStore is a UserProvider over a fixed set of users. Stored
// passwords are either plain text or bcrypt hashes.
type CredentialsStore struct {
	store map[string]string
}

// NewCredentialsStore returns a store holding a copy of users, keyed by username.
func NewCredentialsStore(users map[string]string) *CredentialsStore {
	c := &CredentialsStore{store: make(map[string]string, len(users))}
	for u, p := range users {
		c.store[u] = p
	}
	return c
}

// Check returns true if the password is correct for the given username.
func (c *CredentialsStore) Check(username, password string) bool {
	stored, ok := c.store[username]
	if !ok {
		return false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return stored == password
}

// Authenticate implements UserProvider.
func (c *CredentialsStore) Authenticate(username, password string) (*UserInfo, error) {
	if !c.Check(username, password) {
		return nil, errors.NewAuthError(errors.CodeAuthFailed, "Username and password does not match", nil)
	}
	return &UserInfo{Username: username}, nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Authorize resolves the caller of a request from its Authorization header
// value. A nil provider lets every request through as AnonymousUser.
func Authorize(provider UserProvider, header string) (*UserInfo, error) {
	if provider == nil {
		return &UserInfo{Username: AnonymousUser}, nil
	}

	credential, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	username, password, err := DecodeBasic(credential)
	if err != nil {
		return nil, err
	}
	return provider.Authenticate(username, password)
}

// parseHeader splits "<scheme> <credential>" and returns the credential of
// a Basic header.
func parseHeader(header string) (string, error) {
	if header == "" {
		return "", errors.NewAuthError(errors.CodeMissingAuthHeader, "Not found http authorization header", nil)
	}

	scheme, credential, ok := strings.Cut(header, " ")
	if !ok || strings.Contains(credential, " ") {
		return "", errors.NewAuthError(errors.CodeInvalidAuthHeader, "Invalid http authorization header", nil)
	}
	if !strings.EqualFold(scheme, "basic") {
		return "", errors.NewAuthError(errors.CodeUnsupportedAuthScheme,
			"Unsupported http auth scheme, name: "+strings.ToLower(scheme), nil)
	}
	return credential, nil
}

// DecodeBasic decodes a base64 "username:password" credential. The password
// may itself contain colons.
func DecodeBasic(credential string) (string, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(credential)
	if err != nil {
		return "", "", errors.NewAuthError(errors.CodeInvalidBase64, "Invalid base64 value", err)
	}
	if !utf8.Valid(decoded) {
		return "", "", errors.NewAuthError(errors.CodeInvalidUTF8, "Invalid utf-8 value", nil)
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", errors.NewAuthError(errors.CodeInvalidAuthHeader, "Invalid http authorization header", nil)
	}
	return username, password, nil
}
