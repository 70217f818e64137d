package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/finboard/variance/internal/adapter/http/dto"
	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/usecase"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/trend?lookback=12", nil)
	if got := parseIntQuery(req, "lookback", 6); got != 12 {
		t.Fatalf("expected lookback=12, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/trend?lookback=invalid", nil)
	if got := parseIntQuery(req, "lookback", 6); got != 6 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "lookback", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation error", domain.NewValidationError("budget", domain.ErrEmptyBudget), http.StatusBadRequest},
		{"wrapped validation error", domain.NewValidationError("period", domain.ErrInvalidPeriod), http.StatusBadRequest},
		{"invalid thresholds", domain.ErrInvalidThresholds, http.StatusBadRequest},
		{"cache miss", domain.ErrCacheMiss, http.StatusNotFound},
		{"history unavailable", usecase.ErrHistoryUnavailable, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("unexpected body: %v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "invalid request", "period is malformed")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var decoded dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if decoded.Error != "invalid request" || decoded.Message != "period is malformed" {
		t.Fatalf("unexpected error body: %+v", decoded)
	}
}
