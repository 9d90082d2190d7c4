package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"expvote/pkg/logger"
)

// HealthCheck pings one backend
type HealthCheck = func(ctx context.Context) error

// HealthHandler handles health check requests
type HealthHandler struct {
	checks map[string]HealthCheck
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checks map[string]HealthCheck, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "expvote",
		Checks:    make(map[string]string, len(names)),
	}
	status := http.StatusOK

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.WithField("check", name).WithError(err).Warn("Health check failed")
			response.Checks[name] = "unhealthy"
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode health check response")
	}
}
