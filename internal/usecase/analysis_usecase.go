package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finboard/variance/internal/domain"
)

// AnalyzeOptions controls one analysis run. The zero value is the
// default behavior: flat list, insights on, no trends. Flags are
// phrased so that false means the default, which keeps a zero-value
// struct safe to pass.
type AnalyzeOptions struct {
	IncludeZeroVariances  bool
	IncludeChildren       bool
	SuppressInsights      bool
	IncludeNormalInsights bool
	IncludeTrends         bool
	TrendLookback         int
	// History supplies per-account variance series directly; when an
	// account is absent here the configured HistoryRepository is
	// consulted instead.
	History map[string][]domain.HistoricalVariance
}

// DefaultAnalyzeOptions returns the options Analyze assumes when the
// caller has no preference. Only the trend lookback differs from the
// zero value; everything else defaults through false.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		TrendLookback: DefaultTrendLookback,
	}
}

// AnalyzeInput is the full input for one analysis run. Organization,
// board, and period identify the run for caching and history; the
// lines are the data under analysis.
type AnalyzeInput struct {
	OrganizationID string
	BoardID        string
	Period         string
	BudgetLines    []domain.BudgetLine
	ActualLines    []domain.ActualLine
	Options        AnalyzeOptions
	// Force makes AnalyzeCached skip the cache read and recompute.
	// The fresh result is still written back and recorded in history.
	Force bool
}

func (in AnalyzeInput) cacheable() bool {
	return in.OrganizationID != "" && in.BoardID != "" && in.Period != ""
}

// AnalysisUseCase runs variance analyses. The computation itself is
// pure and stateless per call; the cache and history repository are
// optional collaborators that only the cached entry points touch.
type AnalysisUseCase struct {
	thresholds domain.Thresholds
	cache      ResultCache
	history    HistoryRepository
	idGen      IDGenerator
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewAnalysisUseCase creates a new AnalysisUseCase. Cache and history
// may be nil; the use case then always recomputes and never persists.
func NewAnalysisUseCase(thresholds domain.Thresholds, cache ResultCache, history HistoryRepository, idGen IDGenerator, cacheTTL time.Duration, logger zerolog.Logger) (*AnalysisUseCase, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	return &AnalysisUseCase{
		thresholds: thresholds,
		cache:      cache,
		history:    history,
		idGen:      idGen,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}, nil
}

// Thresholds returns the severity cut points this use case was
// constructed with.
func (uc *AnalysisUseCase) Thresholds() domain.Thresholds {
	return uc.thresholds
}

// Analyze validates the input, builds the variance forest, and
// assembles the result. It performs no caching; callers wanting
// read-through behavior use AnalyzeCached.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, input AnalyzeInput) (result *domain.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.AnalysisError{Op: "analyze", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := domain.ValidateBudgetLines(input.BudgetLines); err != nil {
		return nil, err
	}
	if err := domain.ValidateActualLines(input.ActualLines); err != nil {
		return nil, err
	}
	if input.Period != "" {
		if err := domain.ValidatePeriod(input.Period); err != nil {
			return nil, err
		}
	}

	// Totals come from the flat input lines, independent of whether a
	// hierarchy was requested, so they stay comparable across option
	// sets.
	totalBudget := decimal.Zero
	for _, line := range input.BudgetLines {
		totalBudget = totalBudget.Add(line.Amount)
	}
	totalActual := decimal.Zero
	for _, line := range input.ActualLines {
		totalActual = totalActual.Add(line.Amount)
	}
	totals := domain.ComputeVariance(totalBudget, totalActual)

	records, demoted := domain.BuildVarianceTree(input.BudgetLines, input.ActualLines, domain.TreeOptions{
		IncludeZeroVariances: input.Options.IncludeZeroVariances,
		IncludeChildren:      input.Options.IncludeChildren,
		Thresholds:           uc.thresholds,
	})
	if len(demoted) > 0 {
		uc.logger.Warn().
			Strs("account_ids", demoted).
			Str("period", input.Period).
			Msg("accounts with unmatched parents promoted to roots")
	}

	leaves := leafRecords(records)

	if input.Options.IncludeTrends {
		uc.attachTrends(ctx, input, leaves)
	}

	var insights []domain.Insight
	if !input.Options.SuppressInsights {
		insights = domain.GenerateInsights(leaves, domain.InsightOptions{
			IncludeNormal: input.Options.IncludeNormalInsights,
		})
	}

	summary := domain.AnalysisSummary{TotalAccounts: len(leaves)}
	for _, rec := range leaves {
		switch rec.Severity {
		case domain.SeverityCritical:
			summary.CriticalCount++
		case domain.SeverityWarning:
			summary.WarningCount++
		case domain.SeverityFavorable:
			summary.FavorableCount++
		}
	}

	result = &domain.AnalysisResult{
		ID:                   uc.idGen.Generate(),
		OrganizationID:       input.OrganizationID,
		BoardID:              input.BoardID,
		Period:               input.Period,
		TotalBudget:          totalBudget,
		TotalActual:          totalActual,
		TotalVariance:        totals.Variance,
		TotalVariancePercent: totals.VariancePercent,
		Records:              records,
		DemotedAccountIDs:    demoted,
		Insights:             insights,
		Summary:              summary,
		GeneratedAt:          time.Now().UTC(),
	}
	if input.cacheable() {
		result.CacheKey = CacheKey(input.OrganizationID, input.BoardID, input.Period)
	}

	return result, nil
}

// AnalyzeCached is the read-through entry point: cache hit short-
// circuits the computation, a fresh result is written back and
// recorded in history. Setting input.Force skips the read but keeps
// the write-back and the history record. Cache and history failures
// degrade to warnings; they never fail the analysis. The second
// return value reports whether the result came from cache.
func (uc *AnalysisUseCase) AnalyzeCached(ctx context.Context, input AnalyzeInput) (*domain.AnalysisResult, bool, error) {
	useCache := uc.cache != nil && input.cacheable()
	key := CacheKey(input.OrganizationID, input.BoardID, input.Period)

	if useCache && !input.Force {
		cached, err := uc.cache.Get(ctx, key)
		if err == nil {
			return cached, true, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, recomputing")
		}
	}

	result, err := uc.Analyze(ctx, input)
	if err != nil {
		return nil, false, err
	}

	if useCache {
		if err := uc.cache.Set(ctx, key, result, uc.cacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	if uc.history != nil && input.cacheable() {
		if err := uc.history.RecordAnalysis(ctx, input.OrganizationID, input.BoardID, result); err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("history write failed")
		}
	}

	return result, false, nil
}

// InvalidateAnalysis drops one cached analysis.
func (uc *AnalysisUseCase) InvalidateAnalysis(ctx context.Context, organizationID, boardID, period string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Invalidate(ctx, CacheKey(organizationID, boardID, period))
}

// InvalidateOrganization drops every cached analysis for one
// organization and reports how many entries were removed.
func (uc *AnalysisUseCase) InvalidateOrganization(ctx context.Context, organizationID string) (int, error) {
	if uc.cache == nil {
		return 0, nil
	}
	return uc.cache.InvalidateOrganization(ctx, organizationID)
}

// CachedAnalysisExists reports whether a fresh cache entry exists.
func (uc *AnalysisUseCase) CachedAnalysisExists(ctx context.Context, organizationID, boardID, period string) (bool, error) {
	if uc.cache == nil {
		return false, nil
	}
	return uc.cache.Exists(ctx, CacheKey(organizationID, boardID, period))
}

func (uc *AnalysisUseCase) attachTrends(ctx context.Context, input AnalyzeInput, leaves []*domain.VarianceRecord) {
	lookback := input.Options.TrendLookback
	if lookback <= 0 {
		lookback = DefaultTrendLookback
	}
	if lookback > MaxTrendLookback {
		lookback = MaxTrendLookback
	}

	for _, rec := range leaves {
		history, supplied := input.Options.History[rec.AccountID]
		if !supplied && uc.history != nil && input.cacheable() {
			fetched, err := uc.history.AccountHistory(ctx, input.OrganizationID, input.BoardID, rec.AccountID, lookback)
			if err != nil {
				uc.logger.Warn().Err(err).
					Str("account_id", rec.AccountID).
					Msg("history fetch failed, skipping trend")
				continue
			}
			history = fetched
		}
		rec.Trend = domain.CalculateTrend(history)
	}
}

// leafRecords walks the forest and collects the records that carry
// their own amounts rather than rolled-up child totals. Insights and
// summary counts work on leaves so hierarchical runs do not double
// count.
func leafRecords(records []*domain.VarianceRecord) []*domain.VarianceRecord {
	leaves := make([]*domain.VarianceRecord, 0, len(records))
	for _, root := range records {
		root.Walk(func(rec *domain.VarianceRecord) {
			if len(rec.Children) == 0 {
				leaves = append(leaves, rec)
			}
		})
	}
	return leaves
}
