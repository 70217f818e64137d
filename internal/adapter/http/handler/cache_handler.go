package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard/variance/internal/adapter/http/dto"
	"github.com/finboard/variance/internal/infrastructure/metrics"
)

// CacheService defines the behavior needed by CacheHandler.
type CacheService interface {
	InvalidateAnalysis(ctx context.Context, organizationID, boardID, period string) error
	InvalidateOrganization(ctx context.Context, organizationID string) (int, error)
	CachedAnalysisExists(ctx context.Context, organizationID, boardID, period string) (bool, error)
}

// CacheHandler handles cache management HTTP requests.
type CacheHandler struct {
	cacheUC CacheService
	metrics *metrics.Metrics
}

// NewCacheHandler creates a new CacheHandler. Metrics may be nil.
func NewCacheHandler(cacheUC CacheService, m *metrics.Metrics) *CacheHandler {
	return &CacheHandler{cacheUC: cacheUC, metrics: m}
}

func (h *CacheHandler) recordInvalidation(scope string, count int) {
	if h.metrics == nil {
		return
	}
	h.metrics.CacheInvalidations.WithLabelValues(scope).Add(float64(count))
}

// InvalidateEntry removes one cached analysis.
func (h *CacheHandler) InvalidateEntry(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	boardID := chi.URLParam(r, "boardID")
	period := chi.URLParam(r, "period")
	if orgID == "" || boardID == "" || period == "" {
		writeError(w, http.StatusBadRequest, "missing cache key segment", "")
		return
	}

	if err := h.cacheUC.InvalidateAnalysis(r.Context(), orgID, boardID, period); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to invalidate analysis", err.Error())

		return
	}

	h.recordInvalidation("entry", 1)

	writeJSON(w, http.StatusOK, dto.InvalidationResponse{Invalidated: 1})
}

// InvalidateOrganization removes every cached analysis for an
// organization.
func (h *CacheHandler) InvalidateOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	if orgID == "" {
		writeError(w, http.StatusBadRequest, "missing organization ID", "")
		return
	}

	count, err := h.cacheUC.InvalidateOrganization(r.Context(), orgID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to invalidate organization", err.Error())

		return
	}

	h.recordInvalidation("organization", count)

	writeJSON(w, http.StatusOK, dto.InvalidationResponse{Invalidated: count})
}

// Exists reports whether a cached analysis is present.
func (h *CacheHandler) Exists(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	boardID := chi.URLParam(r, "boardID")
	period := chi.URLParam(r, "period")

	found, err := h.cacheUC.CachedAnalysisExists(r.Context(), orgID, boardID, period)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to check cache", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"cached": found})
}
