package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finboard/variance/internal/adapter/http/dto"
	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/infrastructure/metrics"
	"github.com/finboard/variance/internal/usecase"
)

// AnalysisService defines the behavior needed by AnalysisHandler.
type AnalysisService interface {
	AnalyzeCached(ctx context.Context, input usecase.AnalyzeInput) (*domain.AnalysisResult, bool, error)
}

// AnalysisHandler handles variance analysis HTTP requests.
type AnalysisHandler struct {
	analysisUC AnalysisService
	metrics    *metrics.Metrics
}

// NewAnalysisHandler creates a new AnalysisHandler. Metrics may be
// nil, in which case nothing is recorded.
func NewAnalysisHandler(analysisUC AnalysisService, m *metrics.Metrics) *AnalysisHandler {
	return &AnalysisHandler{analysisUC: analysisUC, metrics: m}
}

// Create runs a variance analysis. Results are served read-through
// from the cache; force=true recomputes while still refreshing the
// cache entry and the history record.
func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req.Force = r.URL.Query().Get("force") == "true"

	input := req.ToUseCaseInput()

	start := time.Now()

	result, cached, err := h.analysisUC.AnalyzeCached(r.Context(), input)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AnalysisErrors.WithLabelValues(errorType(err)).Inc()
		}
		status := mapDomainError(err)
		writeError(w, status, "failed to run analysis", err.Error())

		return
	}

	h.recordMetrics(result, cached, time.Since(start))

	writeJSON(w, http.StatusOK, dto.AnalysisFromDomain(result, cached))
}

func (h *AnalysisHandler) recordMetrics(result *domain.AnalysisResult, cached bool, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}

	h.metrics.AnalysesRun.Inc()
	h.metrics.AnalysisDuration.Observe(elapsed.Seconds())
	h.metrics.AnalysisAccounts.Observe(float64(result.Summary.TotalAccounts))

	if cached {
		h.metrics.CacheHits.Inc()
	} else {
		h.metrics.CacheMisses.Inc()
	}

	for _, insight := range result.Insights {
		h.metrics.InsightsGenerated.WithLabelValues(string(insight.Severity)).Inc()
	}
}

func errorType(err error) string {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return "validation"
	}

	var analysisErr *domain.AnalysisError
	if errors.As(err, &analysisErr) {
		return "internal"
	}

	return "other"
}
