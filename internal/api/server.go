// Package api provides the HTTP REST API for Bookmarkd.
//
// It exposes the session operations (signup, login, logout, refresh),
// user profile endpoints, and owner-scoped bookmark CRUD. The server
// follows the same lifecycle pattern as the infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bookmarkd/bookmarkd/internal/audit"
	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/bookmark"
	"github.com/bookmarkd/bookmarkd/internal/infrastructure/config"
	"github.com/bookmarkd/bookmarkd/internal/infrastructure/database"
	"github.com/bookmarkd/bookmarkd/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	Logger    *logging.Logger
	Sessions  *auth.Service
	Issuer    *auth.TokenIssuer
	UserRepo  auth.UserRepository
	Bookmarks *bookmark.Service
	AuditRepo audit.Repository
	DB        *database.DB
	Version   string
}

// Server is the HTTP API server for Bookmarkd.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	sessions  *auth.Service
	issuer    *auth.TokenIssuer
	userRepo  auth.UserRepository
	bookmarks *bookmark.Service
	auditRepo audit.Repository
	db        *database.DB
	version   string
	server    *http.Server
	startedAt time.Time
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session service is required")
	}
	if deps.Issuer == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	if deps.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if deps.Bookmarks == nil {
		return nil, fmt.Errorf("bookmark service is required")
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		sessions:  deps.Sessions,
		issuer:    deps.Issuer,
		userRepo:  deps.UserRepo,
		bookmarks: deps.Bookmarks,
		auditRepo: deps.AuditRepo,
		db:        deps.DB,
		version:   deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server is stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.startedAt = time.Now()

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// auditLog records an audit trail entry. Failures are logged, never fatal:
// audit must not break the request that triggered it.
func (s *Server) auditLog(ctx context.Context, action, entityType, entityID, userID string, details map[string]any) {
	if s.auditRepo == nil {
		return
	}

	entry := &audit.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Source:     "api",
		Details:    details,
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("audit log write failed", "action", action, "error", err)
	}
}
