package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims extends JWT standard claims with Bookmarkd-specific fields.
// Access and refresh tokens carry the identical claim shape and are
// distinguished only by which secret signed them.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenConfig carries the secrets and lifetimes for both token classes.
// It is passed explicitly at construction; there is no ambient lookup.
type TokenConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenIssuer mints and verifies signed access and refresh tokens.
//
// One parametrised implementation serves both token classes: the only
// variation between them is the secret/TTL pair selected per call.
type TokenIssuer struct {
	cfg TokenConfig
}

// NewTokenIssuer creates a token issuer from explicit configuration.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// IssueAccessToken creates a signed, short-lived JWT access token.
// Access tokens are validated by signature only (no DB hit).
func (ti *TokenIssuer) IssueAccessToken(userID, email string) (string, error) {
	return ti.issue(userID, email, ti.cfg.AccessSecret, ti.cfg.AccessTokenTTL)
}

// IssueRefreshToken creates a signed, long-lived JWT refresh token.
// The raw token is returned to the client; only its Argon2id hash is
// ever persisted.
func (ti *TokenIssuer) IssueRefreshToken(userID, email string) (string, error) {
	return ti.issue(userID, email, ti.cfg.RefreshSecret, ti.cfg.RefreshTokenTTL)
}

// ParseAccessToken validates a JWT against the access secret.
func (ti *TokenIssuer) ParseAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, ti.cfg.AccessSecret)
}

// ParseRefreshToken validates a JWT against the refresh secret.
func (ti *TokenIssuer) ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, ti.cfg.RefreshSecret)
}

// issue signs a token for the given identity with the selected secret and TTL.
func (ti *TokenIssuer) issue(userID, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// parseToken validates and parses a JWT, returning the claims.
// It checks the signature, expiry, and required fields.
func parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrTokenInvalid)
	}

	return claims, nil
}
