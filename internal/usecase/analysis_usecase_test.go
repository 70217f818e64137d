package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/usecase"
	"github.com/finboard/variance/internal/usecase/mocks"
)

func newAnalysisUseCase(t *testing.T, cache usecase.ResultCache, history usecase.HistoryRepository) *usecase.AnalysisUseCase {
	t.Helper()

	uc, err := usecase.NewAnalysisUseCase(
		domain.DefaultThresholds(),
		cache,
		history,
		mocks.NewMockIDGenerator(),
		time.Hour,
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("failed to build use case: %v", err)
	}
	return uc
}

func expenseInput() usecase.AnalyzeInput {
	return usecase.AnalyzeInput{
		OrganizationID: "org-1",
		BoardID:        "board-1",
		Period:         "2024-01",
		BudgetLines: []domain.BudgetLine{{
			AccountID:   "1",
			AccountName: "Operations",
			AccountType: domain.AccountTypeExpense,
			Amount:      decimal.NewFromInt(10000),
			Period:      "2024-01",
		}},
		ActualLines: []domain.ActualLine{{
			AccountID: "1",
			Amount:    decimal.NewFromInt(13000),
		}},
		Options: usecase.DefaultAnalyzeOptions(),
	}
}

func TestAnalysisUseCase_Analyze_EmptyBudgetFails(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	_, err := uc.Analyze(context.Background(), usecase.AnalyzeInput{
		Period:  "2024-01",
		Options: usecase.DefaultAnalyzeOptions(),
	})
	if err == nil {
		t.Fatal("expected error for empty budget")
	}

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestAnalysisUseCase_Analyze_InvalidPeriodFails(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	input := expenseInput()
	input.Period = "January 2024"

	_, err := uc.Analyze(context.Background(), input)
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestAnalysisUseCase_Analyze_ExpenseOverrunScenario(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	result, err := uc.Analyze(context.Background(), expenseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.TotalVariance.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("total variance: got %s, want 3000", result.TotalVariance)
	}
	if result.TotalVariancePercent != 30 {
		t.Errorf("total percent: got %v, want 30", result.TotalVariancePercent)
	}

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	rec := result.Records[0]
	if rec.Severity != domain.SeverityCritical {
		t.Errorf("severity: got %s, want critical", rec.Severity)
	}
	if rec.VariancePercent != 30 {
		t.Errorf("record percent: got %v, want 30", rec.VariancePercent)
	}

	var found bool
	for _, in := range result.Insights {
		if strings.Contains(in.Message, "over budget") && strings.Contains(in.Recommendation, "cost controls") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an over-budget insight with a cost-control recommendation, got %+v", result.Insights)
	}

	if result.Summary.CriticalCount != 1 || result.Summary.TotalAccounts != 1 {
		t.Errorf("summary: %+v", result.Summary)
	}
	if result.CacheKey != "org-1:board-1:2024-01" {
		t.Errorf("cache key: got %q", result.CacheKey)
	}
	if result.ID == "" {
		t.Error("result should carry a generated id")
	}
}

func TestAnalysisUseCase_Analyze_RevenueShortfallScenario(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	result, err := uc.Analyze(context.Background(), usecase.AnalyzeInput{
		Period: "2024-02",
		BudgetLines: []domain.BudgetLine{{
			AccountID:   "rev",
			AccountName: "Subscription revenue",
			AccountType: domain.AccountTypeRevenue,
			Amount:      decimal.NewFromInt(100000),
			Period:      "2024-02",
		}},
		ActualLines: []domain.ActualLine{{
			AccountID: "rev",
			Amount:    decimal.NewFromInt(80000),
		}},
		Options: usecase.DefaultAnalyzeOptions(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Records[0].Severity != domain.SeverityCritical {
		t.Errorf("severity: got %s, want critical", result.Records[0].Severity)
	}

	var found bool
	for _, in := range result.Insights {
		if in.AccountID != "rev" {
			continue
		}
		if strings.Contains(in.Message, "below budget") && strings.Contains(in.Recommendation, "pipeline") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a below-budget insight with a revenue recommendation, got %+v", result.Insights)
	}
}

func TestAnalysisUseCase_Analyze_EmptyActualsTolerated(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	input := expenseInput()
	input.ActualLines = nil

	result, err := uc.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.TotalActual.IsZero() {
		t.Errorf("total actual: got %s, want 0", result.TotalActual)
	}
	if !result.Records[0].Variance.Equal(decimal.NewFromInt(-10000)) {
		t.Errorf("variance: got %s, want -10000", result.Records[0].Variance)
	}
}

func TestAnalysisUseCase_Analyze_InsightsSuppressed(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	input := expenseInput()
	input.Options.SuppressInsights = true

	result, err := uc.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Insights) != 0 {
		t.Errorf("expected no insights, got %d", len(result.Insights))
	}
}

func TestAnalysisUseCase_Analyze_ZeroValueOptionsGenerateInsights(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	input := expenseInput()
	input.Options = usecase.AnalyzeOptions{}

	result, err := uc.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Insights) == 0 {
		t.Error("expected insights for a 30% expense overrun with zero-value options")
	}
}

func TestAnalysisUseCase_Analyze_TotalsIgnoreHierarchy(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	input := usecase.AnalyzeInput{
		Period: "2024-01",
		BudgetLines: []domain.BudgetLine{
			{AccountID: "p", AccountName: "Parent", AccountType: domain.AccountTypeExpense, Amount: decimal.NewFromInt(100), Period: "2024-01"},
			{AccountID: "c", AccountName: "Child", AccountType: domain.AccountTypeExpense, Amount: decimal.NewFromInt(900), Period: "2024-01", ParentAccountID: "p"},
		},
		Options: usecase.DefaultAnalyzeOptions(),
	}

	flat, err := uc.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input.Options.IncludeChildren = true
	hierarchical, err := uc.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Totals always come from the flat input lines.
	if !flat.TotalBudget.Equal(hierarchical.TotalBudget) {
		t.Errorf("totals diverge: flat %s vs hierarchical %s", flat.TotalBudget, hierarchical.TotalBudget)
	}
	if !hierarchical.TotalBudget.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("total budget: got %s, want 1000", hierarchical.TotalBudget)
	}
	if len(hierarchical.Records) != 1 {
		t.Errorf("expected single root after rollup, got %d", len(hierarchical.Records))
	}
}

func TestAnalysisUseCase_Analyze_SuppliedHistoryAttachesTrends(t *testing.T) {
	uc := newAnalysisUseCase(t, nil, nil)

	input := expenseInput()
	input.Options.IncludeTrends = true
	input.Options.History = map[string][]domain.HistoricalVariance{
		"1": {
			{Period: "2023-11", VariancePercent: 10},
			{Period: "2023-12", VariancePercent: 20},
		},
	}

	result, err := uc.Analyze(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trend := result.Records[0].Trend
	if trend == nil {
		t.Fatal("expected a trend on the record")
	}
	if trend.Direction != domain.TrendDeclining {
		t.Errorf("direction: got %s, want declining", trend.Direction)
	}
}

func TestAnalysisUseCase_AnalyzeCached(t *testing.T) {
	cache := mocks.NewMockResultCache()
	uc := newAnalysisUseCase(t, cache, nil)
	ctx := context.Background()

	first, hit, err := uc.AnalyzeCached(ctx, expenseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("first call should be a miss")
	}

	second, hit, err := uc.AnalyzeCached(ctx, expenseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Error("second call should hit the cache")
	}
	if second.ID != first.ID {
		t.Errorf("cache returned a different result: %s vs %s", second.ID, first.ID)
	}
}

func TestAnalysisUseCase_AnalyzeCached_ForceRecomputesAndWritesThrough(t *testing.T) {
	cache := mocks.NewMockResultCache()
	history := &failingHistory{}
	uc := newAnalysisUseCase(t, cache, history)
	ctx := context.Background()

	first, _, err := uc.AnalyzeCached(ctx, expenseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	history.recordCalled = false

	forcedInput := expenseInput()
	forcedInput.Force = true

	forced, hit, err := uc.AnalyzeCached(ctx, forcedInput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("forced run must not be served from cache")
	}
	if forced.ID == first.ID {
		t.Error("forced run should have recomputed")
	}
	if !history.recordCalled {
		t.Error("forced run should still record history")
	}

	// The forced result replaced the cached entry.
	after, hit, err := uc.AnalyzeCached(ctx, expenseInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Error("forced run should have refreshed the cache")
	}
	if after.ID != forced.ID {
		t.Errorf("cache holds %s, want the forced result %s", after.ID, forced.ID)
	}
}

func TestAnalysisUseCase_AnalyzeCached_CacheFailuresDegrade(t *testing.T) {
	cache := mocks.NewMockResultCache()
	cache.GetFunc = func(ctx context.Context, key string) (*domain.AnalysisResult, error) {
		return nil, errors.New("redis connection refused")
	}
	cache.SetFunc = func(ctx context.Context, key string, result *domain.AnalysisResult, ttl time.Duration) error {
		return errors.New("redis connection refused")
	}

	uc := newAnalysisUseCase(t, cache, nil)

	result, hit, err := uc.AnalyzeCached(context.Background(), expenseInput())
	if err != nil {
		t.Fatalf("cache outage must not fail the analysis: %v", err)
	}
	if hit {
		t.Error("broken cache cannot produce a hit")
	}
	if result == nil {
		t.Fatal("expected a freshly computed result")
	}
}

func TestAnalysisUseCase_AnalyzeCached_HistoryFailureDegrades(t *testing.T) {
	history := &failingHistory{}
	uc := newAnalysisUseCase(t, nil, history)

	_, _, err := uc.AnalyzeCached(context.Background(), expenseInput())
	if err != nil {
		t.Fatalf("history outage must not fail the analysis: %v", err)
	}
	if !history.recordCalled {
		t.Error("history should have been attempted")
	}
}

func TestAnalysisUseCase_InvalidateOrganization(t *testing.T) {
	cache := mocks.NewMockResultCache()
	uc := newAnalysisUseCase(t, cache, nil)
	ctx := context.Background()

	for _, period := range []string{"2024-01", "2024-02"} {
		input := expenseInput()
		input.Period = period
		if _, _, err := uc.AnalyzeCached(ctx, input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	removed, err := uc.InvalidateOrganization(ctx, "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}
	if cache.Len() != 0 {
		t.Errorf("cache should be empty, holds %d", cache.Len())
	}
}

func TestNewAnalysisUseCase_RejectsBadThresholds(t *testing.T) {
	_, err := usecase.NewAnalysisUseCase(
		domain.Thresholds{Critical: 1, Warning: 10, Favorable: -5},
		nil, nil, mocks.NewMockIDGenerator(), time.Hour, zerolog.Nop(),
	)
	if !errors.Is(err, domain.ErrInvalidThresholds) {
		t.Errorf("expected ErrInvalidThresholds, got %v", err)
	}
}

// failingHistory records that RecordAnalysis was attempted and always
// fails.
type failingHistory struct {
	recordCalled bool
}

func (f *failingHistory) RecordAnalysis(ctx context.Context, organizationID, boardID string, result *domain.AnalysisResult) error {
	f.recordCalled = true
	return errors.New("postgres unavailable")
}

func (f *failingHistory) AccountHistory(ctx context.Context, organizationID, boardID, accountID string, lookback int) ([]domain.HistoricalVariance, error) {
	return nil, errors.New("postgres unavailable")
}
