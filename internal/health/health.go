// Package health provides the HTTP surface of the bot: health probes, status,
// recent trades and start/stop control.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/fd1az/flashloan-bot/internal/logger"
)

// Status represents the health check response.
type Status struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Version   string           `json:"version,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// Check represents an individual health check.
type Check struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// CheckFunc is a function that performs a health check.
type CheckFunc func(ctx context.Context) (bool, string)

// Controller starts and stops the control loop.
type Controller interface {
	Start() error
	Stop()
}

// StatusFunc returns a JSON-encodable view of the loop state.
type StatusFunc func() any

// TradesFunc returns up to limit recent trades; limit 0 means the default.
type TradesFunc func(ctx context.Context, limit int) (any, error)

// MaxTradesLimit caps the limit query parameter of /trades.
const MaxTradesLimit = 500

// Server provides the HTTP endpoints.
type Server struct {
	port    int
	version string
	log     logger.LoggerInterface

	mu      sync.RWMutex
	checks  map[string]CheckFunc
	control Controller
	status  StatusFunc
	trades  TradesFunc

	server *http.Server
}

// NewServer creates a new health check server.
func NewServer(port int, version string, log logger.LoggerInterface) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		port:    port,
		version: version,
		log:     log,
		checks:  make(map[string]CheckFunc),
	}
}

// RegisterCheck registers a health check function.
func (s *Server) RegisterCheck(name string, check CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// SetController enables POST /start and /stop.
func (s *Server) SetController(c Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.control = c
}

// SetStatus enables GET /status.
func (s *Server) SetStatus(fn StatusFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = fn
}

// SetTrades enables GET /trades.
func (s *Server) SetTrades(fn TradesFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = fn
}

// Handler returns the endpoint mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /live", s.handleLive)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /trades", s.handleTrades)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /stop", s.handleStop)
	return mux
}

// Start listens on the configured port in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen health server: %w", err)
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(ctx, "health server stopped", "error", err)
		}
	}()

	s.log.Info(ctx, "health server listening", "port", s.port)
	return nil
}

// Stop gracefully stops the health check server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) snapshotChecks() map[string]CheckFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	checks := make(map[string]CheckFunc, len(s.checks))
	for k, v := range s.checks {
		checks[k] = v
	}
	return checks
}

// handleHealth returns full health status with all checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := Status{
		Status:    "ok",
		Checks:    make(map[string]Check),
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	code := http.StatusOK
	for name, check := range s.snapshotChecks() {
		healthy, msg := check(ctx)
		status.Checks[name] = Check{Healthy: healthy, Message: msg}
		if !healthy {
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, status)
}

// handleReady returns whether the service is ready to receive traffic.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, check := range s.snapshotChecks() {
		if healthy, _ := check(ctx); !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleLive returns whether the service is alive (simple liveness probe).
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	fn := s.status
	s.mu.RUnlock()

	if fn == nil {
		writeError(w, http.StatusNotFound, "status not available")
		return
	}
	writeJSON(w, http.StatusOK, fn())
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	fn := s.trades
	s.mu.RUnlock()

	if fn == nil {
		writeError(w, http.StatusNotFound, "trades not available")
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trades, err := fn(r.Context(), limit)
	if err != nil {
		s.log.Error(r.Context(), "list trades failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read trades")
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

// parseLimit reads ?limit. Empty means default (0); values above
// MaxTradesLimit are capped.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer")
	}
	if n > MaxTradesLimit {
		n = MaxTradesLimit
	}
	return n, nil
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	c := s.controller()
	if c == nil {
		writeError(w, http.StatusNotFound, "control not available")
		return
	}
	if err := c.Start(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.log.Info(r.Context(), "bot start requested over http")
	s.writeStatusOr(w, map[string]string{"result": "started"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	c := s.controller()
	if c == nil {
		writeError(w, http.StatusNotFound, "control not available")
		return
	}
	c.Stop()
	s.log.Info(r.Context(), "bot stop requested over http")
	s.writeStatusOr(w, map[string]string{"result": "stopping"})
}

func (s *Server) controller() Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.control
}

func (s *Server) writeStatusOr(w http.ResponseWriter, fallback any) {
	s.mu.RLock()
	fn := s.status
	s.mu.RUnlock()
	if fn != nil {
		writeJSON(w, http.StatusOK, fn())
		return
	}
	writeJSON(w, http.StatusOK, fallback)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
