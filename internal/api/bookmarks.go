package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookmarkd/bookmarkd/internal/bookmark"
)

type createBookmarkRequest struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
}

type updateBookmarkRequest struct {
	Title       *string `json:"title,omitempty"`
	Link        *string `json:"link,omitempty"`
	Description *string `json:"description,omitempty"`
}

// handleListBookmarks returns the caller's bookmarks.
func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	bookmarks, err := s.bookmarks.List(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("list bookmarks failed", "user_id", user.ID, "error", err)
		writeInternalError(w, "failed to list bookmarks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bookmarks": bookmarks,
		"count":     len(bookmarks),
	})
}

// handleCreateBookmark saves a new bookmark owned by the caller.
func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req createBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Title == "" || req.Link == "" {
		writeBadRequest(w, "title and link are required")
		return
	}

	bm, err := s.bookmarks.Create(r.Context(), user.ID, req.Title, req.Link, req.Description)
	if err != nil {
		s.logger.Error("create bookmark failed", "user_id", user.ID, "error", err)
		writeInternalError(w, "failed to create bookmark")
		return
	}

	s.auditLog(r.Context(), "create", "bookmark", bm.ID, user.ID, map[string]any{"title": bm.Title})

	writeJSON(w, http.StatusCreated, bm)
}

// handleGetBookmark returns a single bookmark by ID.
// Reads are not owner-checked; only existence matters.
func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	bm, err := s.bookmarks.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, bookmark.ErrNotFound) {
			writeNotFound(w, "bookmark not found")
			return
		}
		s.logger.Error("get bookmark failed", "bookmark_id", id, "error", err)
		writeInternalError(w, "failed to get bookmark")
		return
	}

	writeJSON(w, http.StatusOK, bm)
}

// handleUpdateBookmark edits a bookmark after the ownership check.
func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req updateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	bm, err := s.bookmarks.Update(r.Context(), user.ID, id, bookmark.BookmarkEdit{
		Title:       req.Title,
		Link:        req.Link,
		Description: req.Description,
	})
	if err != nil {
		s.writeBookmarkError(w, id, user.ID, err)
		return
	}

	s.auditLog(r.Context(), "update", "bookmark", bm.ID, user.ID, nil)

	writeJSON(w, http.StatusOK, bm)
}

// handleDeleteBookmark removes a bookmark after the ownership check.
func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.bookmarks.Delete(r.Context(), user.ID, id); err != nil {
		s.writeBookmarkError(w, id, user.ID, err)
		return
	}

	s.auditLog(r.Context(), "delete", "bookmark", id, user.ID, nil)

	writeJSON(w, http.StatusOK, map[string]any{"message": "bookmark deleted"})
}

// writeBookmarkError maps bookmark mutation errors to HTTP responses.
// Not-found wins over not-owner: existence is decided before identity.
func (s *Server) writeBookmarkError(w http.ResponseWriter, bookmarkID, userID string, err error) {
	switch {
	case errors.Is(err, bookmark.ErrNotFound):
		writeNotFound(w, "bookmark not found")
	case errors.Is(err, bookmark.ErrNotOwner):
		writeForbidden(w, "you are not allowed to modify this bookmark")
	default:
		s.logger.Error("bookmark mutation failed", "bookmark_id", bookmarkID, "user_id", userID, "error", err)
		writeInternalError(w, "bookmark operation failed")
	}
}
