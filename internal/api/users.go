package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookmarkd/bookmarkd/internal/auth"
)

type updateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// handleListUsers returns all user accounts.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		writeInternalError(w, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// handleGetMe returns the authenticated user together with their bookmarks.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	bookmarks, err := s.bookmarks.List(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("listing user bookmarks failed", "user_id", user.ID, "error", err)
		writeInternalError(w, "failed to load bookmarks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":      user,
		"bookmarks": bookmarks,
	})
}

// handleUpdateMe edits the authenticated user's profile fields.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Email != nil {
		if !auth.IsValidEmail(*req.Email) {
			writeBadRequest(w, "a valid email is required")
			return
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.userRepo.Update(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrCredentialsTaken) {
			writeConflict(w, "email already in use")
			return
		}
		s.logger.Error("update user failed", "user_id", user.ID, "error", err)
		writeInternalError(w, "failed to update user")
		return
	}

	s.auditLog(r.Context(), "update", "user", user.ID, user.ID, nil)

	writeJSON(w, http.StatusOK, user)
}
