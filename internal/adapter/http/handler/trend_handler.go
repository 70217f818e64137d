package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard/variance/internal/adapter/http/dto"
	"github.com/finboard/variance/internal/domain"
)

// TrendService defines the behavior needed by TrendHandler.
type TrendService interface {
	AccountTrend(ctx context.Context, organizationID, boardID, accountID string, lookback int) (*domain.Trend, []domain.HistoricalVariance, error)
}

// TrendHandler handles account trend HTTP requests.
type TrendHandler struct {
	trendUC TrendService
}

// NewTrendHandler creates a new TrendHandler.
func NewTrendHandler(trendUC TrendService) *TrendHandler {
	return &TrendHandler{trendUC: trendUC}
}

// Get returns the variance trend for one account.
func (h *TrendHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	orgID := r.URL.Query().Get("org")
	boardID := r.URL.Query().Get("board")
	if orgID == "" || boardID == "" {
		writeError(w, http.StatusBadRequest, "missing query parameters", "org and board are required")
		return
	}

	lookback := parseIntQuery(r, "lookback", 0)

	trend, history, err := h.trendUC.AccountTrend(r.Context(), orgID, boardID, accountID, lookback)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to compute trend", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountTrendResponse{
		AccountID: accountID,
		Trend:     dto.TrendFromDomain(trend),
		History:   dto.HistoryFromDomain(history),
	})
}
