package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/medtwin/medtwin/internal/api"
	"github.com/medtwin/medtwin/internal/extract"
	"github.com/medtwin/medtwin/internal/metrics"
	"github.com/medtwin/medtwin/internal/prompts"
	"github.com/medtwin/medtwin/internal/regions"
	"github.com/medtwin/medtwin/internal/server/endpoints"
	"github.com/medtwin/medtwin/internal/svcctx"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Server is the MedTwin HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	gateway    *extract.Gateway
	metrics    *metrics.Metrics
	logger     *slog.Logger

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 0.0.0.0)
	Host string
	// Port is the port to listen on (default: 8000)
	Port string
	// CORSOrigins lists allowed browser origins (default: "*")
	CORSOrigins []string
	// MaxUploadBytes caps request bodies; 0 disables the cap
	MaxUploadBytes int64
	// WriteTimeout bounds a whole request, upstream call included (default: 10m)
	WriteTimeout time.Duration

	// Gateway serves analysis; when nil, upstream endpoints return 503
	Gateway *extract.Gateway
	// Regions is the classification table (default: regions.Default())
	Regions *regions.Table
	// Prompts is listed by the prompt endpoints
	Prompts *prompts.Catalog
	// Metrics is optional; nil disables instrumentation and /metrics
	Metrics *metrics.Metrics
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Minute
	}
	if cfg.Regions == nil {
		cfg.Regions = regions.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxUploadBytes < 0 {
		return nil, fmt.Errorf("max upload bytes must not be negative, got %d", cfg.MaxUploadBytes)
	}

	s := &Server{
		gateway: cfg.Gateway,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{
		Gateway:        cfg.Gateway,
		Regions:        cfg.Regions,
		Prompts:        cfg.Prompts,
		Metrics:        cfg.Metrics,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireUpstream)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	})
	s.handler = s.withRequestContext(corsHandler.Handler(mux))

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Start starts the HTTP server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.gateway == nil {
		s.logger.Warn("no upstream model configured, analysis endpoints will return 503")
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown gracefully stops the HTTP server, letting in-flight analyses finish.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withRequestContext assigns a request id, attaches a request-scoped logger,
// and logs and counts every request once it completes.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		logger := s.logger.With("request_id", id)
		ctx := svcctx.WithRequestID(r.Context(), id)
		ctx = svcctx.WithLogger(ctx, logger)

		rec := &statusRecorder{ResponseWriter: w}
		req := r.WithContext(ctx)
		next.ServeHTTP(rec, req)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		path := routePath(req)
		s.metrics.RecordHTTP(r.Method, path, status)

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", path,
			"status", status,
			"elapsed", time.Since(start))
	})
}

// routePath returns the matched route pattern without its method, so metric
// labels stay bounded. Unmatched requests share one label.
func routePath(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

// requireUpstream is middleware for endpoints that call the upstream model.
// Returns 503 Service Unavailable if no gateway is configured.
func (s *Server) requireUpstream(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.gateway == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"upstream model not configured"}`))
			return
		}
		next(w, r)
	}
}
