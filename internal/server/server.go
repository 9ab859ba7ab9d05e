// Package server provides the flowforge HTTP API.
//
// It serves the work item REST endpoints alongside Kubernetes-style
// health probes, Prometheus metrics, and the OpenAPI document, and
// shuts down gracefully with connection draining.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/flowforge/internal/graph"
	"github.com/felixgeelhaar/flowforge/internal/health"
	"github.com/felixgeelhaar/flowforge/internal/log"
	"github.com/felixgeelhaar/flowforge/internal/metrics"
	"github.com/felixgeelhaar/flowforge/internal/path"
	"github.com/felixgeelhaar/flowforge/internal/queue"
	"github.com/felixgeelhaar/flowforge/internal/repository"
)

// Server hosts the flowforge HTTP API.
type Server struct {
	httpServer      *http.Server
	probeManager    *health.ProbeManager
	logger          *log.Logger
	metrics         *metrics.Metrics
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address (e.g. ":8080", "127.0.0.1:8080")
	Address string

	// ShutdownTimeout bounds connection draining during shutdown.
	// Defaults to 30 seconds.
	ShutdownTimeout time.Duration

	// ReadTimeout is the maximum duration for reading a request.
	// Defaults to 10 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing a response.
	// Defaults to 10 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle limit. Defaults to 60 seconds.
	IdleTimeout time.Duration

	// Auth configures token authentication for /api routes. A nil
	// value leaves the API open.
	Auth *TokenAuth
}

// Deps carries the engine components the API serves.
type Deps struct {
	Items    *repository.ItemRepository
	Meta     *repository.MetadataRepository
	History  *repository.HistoryRepository
	Graph    *graph.Graph
	Analyzer *path.Analyzer
	Orderer  *queue.Orderer
	Logger   *log.Logger
	Metrics  *metrics.Metrics
	Registry prometheus.Gatherer
}

// NewServer creates an HTTP server wiring the API, probe, metrics, and
// OpenAPI endpoints.
func NewServer(probeManager *health.ProbeManager, deps Deps, cfg Config) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = log.GetDefault()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.GetDefault()
	}

	s := &Server{
		probeManager:    probeManager,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health/live", s.handleLiveness)
	mux.HandleFunc("/health/ready", s.handleReadiness)
	mux.HandleFunc("/health/startup", s.handleStartup)
	// Legacy alias for readiness.
	mux.HandleFunc("/healthz", s.handleReadiness)

	if deps.Registry != nil {
		mux.Handle("/metrics", metrics.HandlerFor(deps.Registry))
	}

	api := newAPI(deps)
	var apiHandler http.Handler = api.routes()
	if cfg.Auth != nil {
		apiHandler = cfg.Auth.Middleware(apiHandler)
	}
	mux.Handle("/api/", s.instrument(apiHandler))

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start runs the server. It blocks until the server stops and returns
// http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.probeManager.MarkInitialized()
	s.logger.Info("server listening", "address", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections and stops the server. Readiness probes
// fail as soon as shutdown begins so load balancers stop routing here.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probeManager.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether shutdown has begun.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument records request counts and latency per route.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		s.metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, fmt.Sprintf("%d", rec.status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path).Observe(elapsed.Seconds())
	})
}

func (s *Server) writeProbeResponse(w http.ResponseWriter, result *health.ProbeResult, unhealthyStatus int) {
	w.Header().Set("Content-Type", "application/json")

	if result.Status == health.StatusUnhealthy {
		w.WriteHeader(unhealthyStatus)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.WithError(err).Error("failed to encode probe response")
	}
}

// handleLiveness serves GET /health/live. Always 200 while the process
// is responsive, even during shutdown.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeProbeResponse(w, s.probeManager.CheckLiveness(r.Context()), http.StatusOK)
}

// handleReadiness serves GET /health/ready. Returns 503 while shutting
// down or when a dependency check fails.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeProbeResponse(w, s.probeManager.CheckReadiness(r.Context()), http.StatusServiceUnavailable)
}

// handleStartup serves GET /health/startup. Returns 503 until
// initialization completes.
func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeProbeResponse(w, s.probeManager.CheckStartup(r.Context()), http.StatusServiceUnavailable)
}
