package auth

import (
	"errors"
	"regexp"
	"time"
)

// emailPattern is a deliberately loose format check: one @ with
// something either side. The email is only a login identifier here,
// so anything stricter just rejects addresses that would have worked.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// maxEmailLength is the maximum allowed email length.
const maxEmailLength = 254

// IsValidEmail checks if an email address meets format requirements.
func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// User represents a registered account.
//
// PasswordHash and RefreshTokenHash are opaque Argon2id PHC strings and
// are never serialised outbound.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name,omitempty"`
	LastName         string    `json:"last_name,omitempty"`
	PasswordHash     string    `json:"-"` // never serialised
	RefreshTokenHash string    `json:"-"` // never serialised; empty = no active session
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TokenPair is the pair of signed tokens returned by signup, login, and
// refresh. It is ephemeral and never persisted; only the Argon2id hash
// of the refresh token is stored.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Sentinel errors for auth operations.
//
// ErrInvalidCredentials covers both unknown email and wrong password so
// callers cannot distinguish the two (account enumeration defence).
// ErrAccessDenied covers every refresh failure mode for the same reason.
var (
	ErrCredentialsTaken   = errors.New("credentials already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessDenied       = errors.New("access denied")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenInvalid       = errors.New("invalid token")
)
