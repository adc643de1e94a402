// Package httpapi exposes the user and task services over HTTP/JSON. Routing
// uses gorilla/mux; authenticated routes go through the bearer middleware,
// which resolves the token to its owner before the handler runs.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ledovskis/taskkeeper/internal/logging"
	"github.com/ledovskis/taskkeeper/internal/server/models"
)

// UserService is the slice of the identity service the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	CheckToken(ctx context.Context, token string) (*models.User, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	EditProfile(ctx context.Context, token string, name, email *string) (*models.User, error)
}

// TaskService is the slice of the task service the HTTP layer needs.
type TaskService interface {
	Create(ctx context.Context, owner, description string) (*models.Task, error)
	Get(ctx context.Context, owner, id string) (*models.Task, error)
	Edit(ctx context.Context, owner, id string, description, state *string) (*models.Task, error)
	Delete(ctx context.Context, owner, id string) error
	List(ctx context.Context, owner string, filter models.TaskFilter, order models.TaskOrder) ([]*models.Task, error)
}

// Server serves the HTTP API on a single address.
type Server struct {
	address string
	users   UserService
	tasks   TaskService
	logger  logging.Logger
}

// NewServer constructs an HTTP server over the given services.
func NewServer(address string, l logging.Logger, us UserService, ts TaskService) *Server {
	return &Server{
		address: address,
		users:   us,
		tasks:   ts,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the route table. Split out from Run so tests can exercise the
// full routing and middleware stack through httptest.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	r.Handle("/logout", s.withAuth(s.handleLogout)).Methods(http.MethodPost)
	r.Handle("/user", s.withAuth(s.handleProfile)).Methods(http.MethodGet)
	r.Handle("/user", s.withAuth(s.handleEditProfile)).Methods(http.MethodPatch)

	r.Handle("/tasks", s.withAuth(s.handleTaskCreate)).Methods(http.MethodPost)
	r.Handle("/tasks", s.withAuth(s.handleTaskList)).Methods(http.MethodGet)
	r.Handle("/tasks/{id}", s.withAuth(s.handleTaskGet)).Methods(http.MethodGet)
	r.Handle("/tasks/{id}", s.withAuth(s.handleTaskEdit)).Methods(http.MethodPatch)
	r.Handle("/tasks/{id}", s.withAuth(s.handleTaskDelete)).Methods(http.MethodDelete)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
