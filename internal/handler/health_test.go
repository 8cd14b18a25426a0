package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		handler    *HealthHandler
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name: "all healthy",
			handler: NewHealthHandler().
				Require("postgres", &mockHealthChecker{}).
				Optional("redis", &mockHealthChecker{}),
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name: "database down",
			handler: NewHealthHandler().
				Require("postgres", &mockHealthChecker{err: errors.New("connection refused")}).
				Optional("redis", &mockHealthChecker{}),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"postgres": "error: connection refused", "redis": "ok"},
		},
		{
			name: "redis disabled",
			handler: NewHealthHandler().
				Require("postgres", &mockHealthChecker{}).
				Optional("redis", nil),
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"postgres": "ok", "redis": "disabled"},
		},
		{
			name: "redis configured but failing",
			handler: NewHealthHandler().
				Require("postgres", &mockHealthChecker{}).
				Optional("redis", &mockHealthChecker{err: errors.New("timeout")}),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"postgres": "ok", "redis": "error: timeout"},
		},
		{
			name:       "required dependency missing",
			handler:    NewHealthHandler().Require("postgres", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"postgres": "not configured"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			tt.handler.Readyz(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			for name, want := range tt.wantChecks {
				if got := response.Checks[name]; got != want {
					t.Errorf("check %s: expected %q, got %q", name, want, got)
				}
			}
		})
	}
}
