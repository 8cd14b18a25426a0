package handler

import (
	"context"
	"net/http"
	"time"
)

const defaultReadyTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type dependency struct {
	name     string
	checker  HealthChecker
	optional bool
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	deps    []dependency
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler with no dependencies registered.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{timeout: defaultReadyTimeout}
}

// Require registers a dependency that must answer for the service to be ready.
func (h *HealthHandler) Require(name string, checker HealthChecker) *HealthHandler {
	h.deps = append(h.deps, dependency{name: name, checker: checker})
	return h
}

// Optional registers a dependency that is reported but never fails readiness
// when it is not configured. A configured but failing optional dependency
// still marks the service unhealthy.
func (h *HealthHandler) Optional(name string, checker HealthChecker) *HealthHandler {
	h.deps = append(h.deps, dependency{name: name, checker: checker, optional: true})
	return h
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint. No dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It returns 200 only if every configured dependency answers.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true

	for _, dep := range h.deps {
		switch {
		case dep.checker == nil && dep.optional:
			checks[dep.name] = "disabled"
		case dep.checker == nil:
			checks[dep.name] = "not configured"
			healthy = false
		default:
			if err := dep.checker.Ping(ctx); err != nil {
				checks[dep.name] = "error: " + err.Error()
				healthy = false
			} else {
				checks[dep.name] = "ok"
			}
		}
	}

	resp := HealthResponse{Status: "ok", Checks: checks}
	status := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
