// Package api serves the board over HTTP and provides a client that lets a
// remote board use that server as its persistence collaborator.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/scheduler"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/timeline"
)

// Repository is the storage the server exposes.
type Repository interface {
	commit.Persistence
	ListWorkspaces(ctx context.Context) ([]task.Workspace, error)
}

// Planner recomputes plans. Implemented by scheduler.Scheduler.
type Planner interface {
	Recompute(ctx context.Context, workspaceID int64) (scheduler.Result, error)
}

// Options configures a Server.
type Options struct {
	Addr       string
	AuthToken  string
	Window     timeline.Window
	MinPercent float64
	Logger     *slog.Logger
	Now        func() time.Time
}

// workspace serialises headless drops of one workspace.
type workspace struct {
	mu       sync.Mutex
	pipeline *commit.Pipeline
}

// Server holds the HTTP server state.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	repo       Repository
	planner    Planner
	window     timeline.Window
	minPercent float64
	logger     *slog.Logger
	authToken  string
	now        func() time.Time

	mu         sync.Mutex
	workspaces map[int64]*workspace
}

// NewServer constructs the HTTP API server.
func NewServer(repo Repository, planner Planner, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Window == (timeline.Window{}) {
		opts.Window = timeline.Default()
	}
	if opts.MinPercent <= 0 {
		opts.MinPercent = timeline.DefaultMinPercent
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(opts.Logger))
	router.Use(middleware.Recoverer)

	s := &Server{
		router:     router,
		repo:       repo,
		planner:    planner,
		window:     opts.Window,
		minPercent: opts.MinPercent,
		logger:     opts.Logger,
		authToken:  opts.AuthToken,
		now:        opts.Now,
		workspaces: map[int64]*workspace{},
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		if s.authToken != "" {
			r.Use(AuthMiddleware(s.authToken))
		}

		r.Get("/workspaces", s.handleListWorkspaces)
		r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
			r.Get("/snapshot", s.handleSnapshot)
			r.Get("/board", s.handleBoard)
			r.Post("/reschedule", s.handleReschedule)
			r.Put("/tasks/{taskID}/schedule", s.handleSaveTask)
			r.Put("/breaks/{breakID}/schedule", s.handleSaveBreak)
		})

		r.Post("/plans/recompute", s.handleRecompute)
	})
}

// workspace returns the pipeline state of id, creating it on first use.
func (s *Server) workspace(id int64) *workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[id]
	if !ok {
		ws = &workspace{
			pipeline: commit.New(s.repo, commit.NewStore(nil), id,
				commit.WithLogger(s.logger.With("workspace", id)),
				commit.WithHooks(commit.Hooks{
					OnRescheduleWarning: func(msg string) {
						s.logger.Warn("reschedule warning", "workspace", id, "message", msg)
					},
				}),
			),
		}
		s.workspaces[id] = ws
	}
	return ws
}
