package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/finboard/variance/internal/domain"
)

// ResultCache stores computed analysis results keyed by
// (organization, board, period). Implementations must treat expired
// entries as absent and must support organization-wide invalidation.
type ResultCache interface {
	// Get returns the cached result for key, or domain.ErrCacheMiss.
	Get(ctx context.Context, key string) (*domain.AnalysisResult, error)
	Set(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	// InvalidateOrganization removes every entry for the organization
	// and returns how many were dropped.
	InvalidateOrganization(ctx context.Context, organizationID string) (int, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// HistoryRepository persists per-account variance series across
// periods and feeds trend analysis.
type HistoryRepository interface {
	RecordAnalysis(ctx context.Context, organizationID, boardID string, result *domain.AnalysisResult) error
	AccountHistory(ctx context.Context, organizationID, boardID, accountID string, lookback int) ([]domain.HistoricalVariance, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// CacheKey derives the deterministic cache key for one analysis.
func CacheKey(organizationID, boardID, period string) string {
	return organizationID + ":" + boardID + ":" + period
}

// OrganizationFromKey extracts the organization segment of a cache
// key produced by CacheKey.
func OrganizationFromKey(key string) string {
	if i := strings.Index(key, ":"); i >= 0 {
		return key[:i]
	}
	return key
}
