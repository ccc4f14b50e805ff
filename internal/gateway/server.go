// Package gateway implements the command-execution gateway: the HTTP boundary
// that validates requests, applies the rate limit, builds argument vectors
// from the allow-list, executes them with bounded time and output, and
// proxies envelope operations to the remote workflow engine.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/movaengine/runner/internal/allowlist"
	"github.com/movaengine/runner/internal/audit"
	"github.com/movaengine/runner/internal/config"
	"github.com/movaengine/runner/internal/engine"
	"github.com/movaengine/runner/internal/executor"
)

// Server is the gateway façade. The allow-list and project root are
// immutable after construction; the rate limiter is the only shared mutable
// state and guards itself.
type Server struct {
	cfg     *config.Config
	root    string
	builder *ArgvBuilder
	limiter *RateLimiter
	exec    *executor.Executor
	engine  *engine.Client
	audit   *audit.Logger

	server   *http.Server
	listener net.Listener
	mu       sync.Mutex
	running  bool
}

// New wires a Server from its components. root must be the canonical
// project root (see pathutil.CanonicalRoot). auditLogger may be nil to
// disable the execution journal.
func New(cfg *config.Config, root string, store *allowlist.Store, engineClient *engine.Client, auditLogger *audit.Logger) *Server {
	return &Server{
		cfg:     cfg,
		root:    root,
		builder: NewArgvBuilder(store, root),
		limiter: NewRateLimiter(cfg.RateLimit),
		exec:    executor.New(root),
		engine:  engineClient,
		audit:   auditLogger,
	}
}

// Router builds the HTTP handler: chi router, standard middleware, CORS
// restricted to the configured origins, and the gateway routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if len(s.cfg.CORS.Origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORS.Origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/run", s.handleRun)
	r.Post("/validate", s.handleValidate)
	r.Post("/execute", s.handleExecute)
	r.Get("/logs/{run_id}", s.handleLogs)
	r.Get("/introspect", s.handleIntrospect)

	return r
}

// Start begins serving on addr. Returns an error if the server is already
// running or the listener cannot be created.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("gateway server already running")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 30 * time.Second,
	}
	s.running = true

	go func() {
		_ = s.server.Serve(listener)
	}()

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	return s.server.Shutdown(ctx)
}

// ListenAddr returns the actual listen address, useful when started with
// port 0. Empty when not running.
func (s *Server) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
