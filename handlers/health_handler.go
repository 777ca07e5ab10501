package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/secure-access-gateway/repositories"
	"github.com/upb/secure-access-gateway/utils"
)

// readinessTimeout bounds the dependency checks of a readiness probe
const readinessTimeout = 5 * time.Second

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store  repositories.HealthChecker
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. store may be nil when the
// principal store is in-process.
func NewHealthHandler(store repositories.HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteOK(w, response)
}

// HandleReadiness handles GET /readyz
// Readiness check - validates that the principal store is reachable
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.store == nil {
		checks["principal_store"] = "in_memory"
	} else if err := h.store.HealthCheck(ctx); err != nil {
		h.logger.Warn("principal store health check failed", zap.Error(err))
		checks["principal_store"] = "unhealthy"
		allHealthy = false
	} else {
		checks["principal_store"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
