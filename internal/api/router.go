package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// System metrics (no auth required for basic monitoring)
		r.Get("/metrics", s.handleMetrics)

		// Session endpoints (no auth required)
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		// Refresh is protected by the refresh token, not the access token
		r.Group(func(r chi.Router) {
			r.Use(s.refreshMiddleware)
			r.Get("/auth/refresh", s.handleRefresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Delete("/auth/logout", s.handleLogout)

			// User endpoints
			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Get("/me", s.handleGetMe)
				r.Patch("/me", s.handleUpdateMe)
			})

			// Bookmark endpoints
			r.Route("/bookmarks", func(r chi.Router) {
				r.Get("/", s.handleListBookmarks)
				r.Post("/", s.handleCreateBookmark)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetBookmark)
					r.Patch("/", s.handleUpdateBookmark)
					r.Delete("/", s.handleDeleteBookmark)
				})
			})

			// Audit trail
			r.Get("/audit", s.handleListAudit)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"version": s.version,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"version": s.version,
	})
}
