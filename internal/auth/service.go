package auth

import (
	"context"
	"errors"
	"fmt"
)

// dummyPasswordHash is a well-formed Argon2id hash of a secret nobody
// knows. Login verifies against it when the email lookup misses, so
// the miss path burns the same hashing cost as a wrong password and
// the two failures are not separable by response time.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=3,p=1$2NQVFYPYdSSV/0B05+1JUg$d199VhqnWYP+cFqHER4AK2z6B809PX6UClX5K3Selr8"

// Service orchestrates signup, login, logout, and refresh. It combines
// the password hasher, token issuer, and user repository; all session
// state lives in the users table, never in process memory.
type Service struct {
	users  UserRepository
	issuer *TokenIssuer
}

// NewService creates a session service.
func NewService(users UserRepository, issuer *TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Signup registers a new account and opens a session.
//
// Returns ErrCredentialsTaken if the email is already registered; the
// uniqueness constraint in the store is the single source of truth, so
// there is no check-then-create race. Any other store failure
// propagates unmapped.
func (s *Service) Signup(ctx context.Context, email, password string) (*TokenPair, error) {
	passwordHash, err := HashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrCredentialsTaken) {
			return nil, ErrCredentialsTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session, overwriting any prior
// refresh token hash (at most one active session per user).
//
// Unknown email and wrong password both return ErrInvalidCredentials:
// the caller must not be able to tell which part failed.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_, _ = VerifySecret(password, dummyPasswordHash) //nolint:errcheck // result discarded, this only equalises timing
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	match, err := VerifySecret(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Logout clears the stored refresh token hash, ending the session.
// Clearing an already-clear hash is a no-op, not an error.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshHash(ctx, userID, ""); err != nil {
		return fmt.Errorf("clearing refresh hash: %w", err)
	}
	return nil
}

// Refresh redeems a refresh token for a new token pair, rotating the
// stored hash so the presented token can never be redeemed again.
//
// The raw token has already been signature-checked against the refresh
// secret by the caller; claims carry its subject and email. Every
// failure mode — unknown subject, claim mismatch, no outstanding
// session, hash mismatch, lost rotation race — returns ErrAccessDenied.
func (s *Service) Refresh(ctx context.Context, rawToken string, claims *Claims) (*TokenPair, error) {
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	// Both claims must match the stored principal; a mismatch is
	// indistinguishable from a lookup miss.
	if user.Email != claims.Email {
		return nil, ErrAccessDenied
	}

	if user.RefreshTokenHash == "" {
		return nil, ErrAccessDenied
	}

	match, err := VerifySecret(rawToken, user.RefreshTokenHash)
	if err != nil {
		return nil, fmt.Errorf("verifying refresh token: %w", err)
	}
	if !match {
		return nil, ErrAccessDenied
	}

	pair, newHash, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}

	// Single conditional update keyed on the hash we just verified.
	// Two concurrent refreshes with the same token race here; the loser
	// finds the hash already rotated and is denied.
	swapped, err := s.users.SwapRefreshHash(ctx, user.ID, user.RefreshTokenHash, newHash)
	if err != nil {
		return nil, fmt.Errorf("rotating refresh hash: %w", err)
	}
	if !swapped {
		return nil, ErrAccessDenied
	}

	return pair, nil
}

// openSession mints a token pair and unconditionally persists the new
// refresh hash. Used by signup and login.
func (s *Service) openSession(ctx context.Context, user *User) (*TokenPair, error) {
	pair, newHash, err := s.mintPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateRefreshHash(ctx, user.ID, newHash); err != nil {
		return nil, fmt.Errorf("persisting refresh hash: %w", err)
	}

	return pair, nil
}

// mintPair issues both tokens and hashes the refresh token for storage.
func (s *Service) mintPair(user *User) (*TokenPair, string, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issuing access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issuing refresh token: %w", err)
	}

	refreshHash, err := HashSecret(refreshToken)
	if err != nil {
		return nil, "", fmt.Errorf("hashing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, refreshHash, nil
}
