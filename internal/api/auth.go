package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookmarkd/bookmarkd/internal/auth"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// credentialsRequest is the request body for signup and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleSignup registers a new account and returns a token pair.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if !auth.IsValidEmail(req.Email) {
		writeBadRequest(w, "a valid email is required")
		return
	}

	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	pair, err := s.sessions.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrCredentialsTaken) {
			writeForbidden(w, "credentials taken")
			return
		}
		s.logger.Error("signup failed", "error", err)
		writeInternalError(w, "signup failed")
		return
	}

	s.auditLog(r.Context(), "signup", "session", "", "", map[string]any{"email": req.Email})

	writeJSON(w, http.StatusCreated, pair)
}

// handleLogin verifies credentials and returns a token pair.
//
// Unknown email and wrong password produce the identical response; the
// service already collapses both into ErrInvalidCredentials.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	pair, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeForbidden(w, "invalid credentials")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	s.auditLog(r.Context(), "login", "session", "", "", map[string]any{"email": req.Email})

	writeJSON(w, http.StatusOK, pair)
}

// handleLogout revokes the caller's outstanding refresh token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	if err := s.sessions.Logout(r.Context(), user.ID); err != nil {
		s.logger.Error("logout failed", "user_id", user.ID, "error", err)
		writeInternalError(w, "logout failed")
		return
	}

	s.auditLog(r.Context(), "logout", "session", "", user.ID, nil)

	writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

// handleRefresh redeems a refresh token for a new token pair.
// The refresh middleware has already verified the token signature and
// stashed the raw credential alongside its claims.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cred := refreshFromContext(r.Context())

	pair, err := s.sessions.Refresh(r.Context(), cred.Raw, cred.Claims)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			writeUnauthorized(w, "access denied")
			return
		}
		s.logger.Error("refresh failed", "error", err)
		writeInternalError(w, "refresh failed")
		return
	}

	s.auditLog(r.Context(), "refresh", "session", "", cred.Claims.Subject, nil)

	writeJSON(w, http.StatusOK, pair)
}
