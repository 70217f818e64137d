package usecase

import (
	"context"
	"errors"

	"github.com/finboard/variance/internal/domain"
)

// ErrHistoryUnavailable is returned when no history repository is
// configured.
var ErrHistoryUnavailable = errors.New("variance history is not configured")

// TrendUseCase answers trend queries over stored variance history.
type TrendUseCase struct {
	history HistoryRepository
}

// NewTrendUseCase creates a new TrendUseCase.
func NewTrendUseCase(history HistoryRepository) *TrendUseCase {
	return &TrendUseCase{history: history}
}

// AccountTrend fetches the trailing variance series for one account
// and computes its trend. The trend is nil when fewer than two
// periods are on record; that is not an error.
func (uc *TrendUseCase) AccountTrend(ctx context.Context, organizationID, boardID, accountID string, lookback int) (*domain.Trend, []domain.HistoricalVariance, error) {
	if uc.history == nil {
		return nil, nil, ErrHistoryUnavailable
	}

	if lookback <= 0 {
		lookback = DefaultTrendLookback
	}
	if lookback > MaxTrendLookback {
		lookback = MaxTrendLookback
	}

	history, err := uc.history.AccountHistory(ctx, organizationID, boardID, accountID, lookback)
	if err != nil {
		return nil, nil, err
	}

	return domain.CalculateTrend(history), history, nil
}
