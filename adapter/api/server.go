// Package api provides the HTTP API for the rentals fleet service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/carsonrent/rentals/pkg/observability"
)

// Server is the HTTP API server for the fleet resources.
type Server struct {
	mux         *http.ServeMux
	server      *http.Server
	logger      *slog.Logger
	cars        *CarHandler
	coordinates *CoordinatesHandler
	health      *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new fleet API server.
func NewServer(cfg ServerConfig, cars *CarHandler, coordinates *CoordinatesHandler, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:         mux,
		logger:      logger,
		cars:        cars,
		coordinates: coordinates,
		health:      health,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRequestContext(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health endpoints
	s.mux.HandleFunc("GET /healthz", s.handleLiveness)
	s.mux.HandleFunc("GET /readyz", s.handleReadiness)

	// Cars
	s.mux.HandleFunc("POST /api/cars", s.cars.Create)
	s.mux.HandleFunc("PUT /api/cars", s.cars.Update)
	s.mux.HandleFunc("GET /api/cars", s.cars.List)
	s.mux.HandleFunc("GET /api/cars/{id}", s.cars.GetOne)
	s.mux.HandleFunc("DELETE /api/cars/{id}", s.cars.Delete)
	s.mux.HandleFunc("GET /api/_search/cars", s.cars.Search)

	// Coordinates
	s.mux.HandleFunc("POST /api/coordinates", s.coordinates.Create)
	s.mux.HandleFunc("PUT /api/coordinates", s.coordinates.Update)
	s.mux.HandleFunc("GET /api/coordinates", s.coordinates.List)
	s.mux.HandleFunc("GET /api/coordinates/{id}", s.coordinates.GetOne)
	s.mux.HandleFunc("DELETE /api/coordinates/{id}", s.coordinates.Delete)
	s.mux.HandleFunc("GET /api/_search/coordinates", s.coordinates.Search)
}

// withRequestContext stamps every request with a request ID and a correlation
// ID (taken from the X-Correlation-ID header when the caller sends one).
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get("X-Correlation-ID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleLiveness answers as long as the process serves requests.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "up",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReadiness runs the registered dependency checks.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	overall := s.health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if overall.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, overall)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting fleet API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down fleet API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// APIError represents an API error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common API errors
var (
	ErrBadRequest = &APIError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: "Invalid request",
	}
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Resource not found",
	}
	ErrInternalServer = &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
	}
)
