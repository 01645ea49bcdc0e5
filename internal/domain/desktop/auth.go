package desktop

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks lock screen credentials against a single configured
// account. Only a bcrypt hash of the password is kept.
type Authenticator struct {
	username string
	hash     []byte
}

// NewAuthenticator hashes password with the given bcrypt cost. A cost of
// zero uses bcrypt.DefaultCost.
func NewAuthenticator(username, password string, cost int) (*Authenticator, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("authenticator needs a username and password")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Authenticator{username: username, hash: hash}, nil
}

// Verify checks a login attempt. Both fields are required; surrounding
// whitespace in the username is ignored.
func (a *Authenticator) Verify(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
