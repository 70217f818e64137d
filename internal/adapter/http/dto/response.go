package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finboard/variance/internal/domain"
)

// VarianceRecordResponse represents one account's variance in API
// responses. Children are present only for hierarchical analyses.
type VarianceRecordResponse struct {
	AccountID       string                    `json:"account_id"`
	AccountName     string                    `json:"account_name"`
	AccountType     string                    `json:"account_type"`
	AccountCode     string                    `json:"account_code,omitempty"`
	Period          string                    `json:"period,omitempty"`
	Budget          decimal.Decimal           `json:"budget"`
	Actual          decimal.Decimal           `json:"actual"`
	Variance        decimal.Decimal           `json:"variance"`
	VariancePercent float64                   `json:"variance_percent"`
	Severity        string                    `json:"severity"`
	Direction       string                    `json:"direction"`
	Level           int                       `json:"level"`
	Children        []*VarianceRecordResponse `json:"children,omitempty"`
	Insights        []InsightResponse         `json:"insights,omitempty"`
	Trend           *TrendResponse            `json:"trend,omitempty"`
}

// VarianceRecordFromDomain converts a domain record to a response.
func VarianceRecordFromDomain(r *domain.VarianceRecord) *VarianceRecordResponse {
	resp := &VarianceRecordResponse{
		AccountID:       r.AccountID,
		AccountName:     r.AccountName,
		AccountType:     string(r.AccountType),
		AccountCode:     r.AccountCode,
		Period:          r.Period,
		Budget:          r.Budget,
		Actual:          r.Actual,
		Variance:        r.Variance,
		VariancePercent: r.VariancePercent,
		Severity:        string(r.Severity),
		Direction:       string(r.Direction),
		Level:           r.Level,
		Insights:        InsightsFromDomain(r.Insights),
		Trend:           TrendFromDomain(r.Trend),
	}

	if len(r.Children) > 0 {
		resp.Children = make([]*VarianceRecordResponse, len(r.Children))
		for i, child := range r.Children {
			resp.Children[i] = VarianceRecordFromDomain(child)
		}
	}

	return resp
}

// VarianceRecordsFromDomain converts domain records to responses.
func VarianceRecordsFromDomain(records []*domain.VarianceRecord) []*VarianceRecordResponse {
	result := make([]*VarianceRecordResponse, len(records))
	for i, r := range records {
		result[i] = VarianceRecordFromDomain(r)
	}
	return result
}

// InsightResponse represents an insight in API responses.
type InsightResponse struct {
	AccountID      string          `json:"account_id"`
	AccountName    string          `json:"account_name,omitempty"`
	Severity       string          `json:"severity"`
	Message        string          `json:"message"`
	Recommendation string          `json:"recommendation,omitempty"`
	Impact         decimal.Decimal `json:"impact"`
	Confidence     string          `json:"confidence"`
}

// InsightsFromDomain converts domain insights to responses.
func InsightsFromDomain(insights []domain.Insight) []InsightResponse {
	if len(insights) == 0 {
		return nil
	}
	result := make([]InsightResponse, len(insights))
	for i, in := range insights {
		result[i] = InsightResponse{
			AccountID:      in.AccountID,
			AccountName:    in.AccountName,
			Severity:       string(in.Severity),
			Message:        in.Message,
			Recommendation: in.Recommendation,
			Impact:         in.Impact,
			Confidence:     string(in.Confidence),
		}
	}
	return result
}

// TrendResponse represents a trend in API responses.
type TrendResponse struct {
	Direction       string  `json:"direction"`
	AverageVariance float64 `json:"average_variance"`
	Volatility      float64 `json:"volatility"`
	Slope           float64 `json:"slope"`
	Periods         int     `json:"periods"`
}

// TrendFromDomain converts a domain trend to a response. Returns nil
// for nil input so callers can pass records without trend data.
func TrendFromDomain(t *domain.Trend) *TrendResponse {
	if t == nil {
		return nil
	}
	return &TrendResponse{
		Direction:       string(t.Direction),
		AverageVariance: t.AverageVariance,
		Volatility:      t.Volatility,
		Slope:           t.Slope,
		Periods:         t.Periods,
	}
}

// SummaryResponse represents the roll-up counts of an analysis.
type SummaryResponse struct {
	TotalAccounts  int `json:"total_accounts"`
	CriticalCount  int `json:"critical_count"`
	WarningCount   int `json:"warning_count"`
	FavorableCount int `json:"favorable_count"`
}

// AnalysisResponse represents a full analysis result.
type AnalysisResponse struct {
	ID                   string                    `json:"id"`
	OrganizationID       string                    `json:"organization_id,omitempty"`
	BoardID              string                    `json:"board_id,omitempty"`
	Period               string                    `json:"period"`
	TotalBudget          decimal.Decimal           `json:"total_budget"`
	TotalActual          decimal.Decimal           `json:"total_actual"`
	TotalVariance        decimal.Decimal           `json:"total_variance"`
	TotalVariancePercent float64                   `json:"total_variance_percent"`
	Records              []*VarianceRecordResponse `json:"records"`
	DemotedAccountIDs    []string                  `json:"demoted_account_ids,omitempty"`
	Insights             []InsightResponse         `json:"insights,omitempty"`
	Summary              SummaryResponse           `json:"summary"`
	GeneratedAt          time.Time                 `json:"generated_at"`
	Cached               bool                      `json:"cached"`
}

// AnalysisFromDomain converts a domain result to a response.
func AnalysisFromDomain(a *domain.AnalysisResult, cached bool) *AnalysisResponse {
	return &AnalysisResponse{
		ID:                   a.ID,
		OrganizationID:       a.OrganizationID,
		BoardID:              a.BoardID,
		Period:               a.Period,
		TotalBudget:          a.TotalBudget,
		TotalActual:          a.TotalActual,
		TotalVariance:        a.TotalVariance,
		TotalVariancePercent: a.TotalVariancePercent,
		Records:              VarianceRecordsFromDomain(a.Records),
		DemotedAccountIDs:    a.DemotedAccountIDs,
		Insights:             InsightsFromDomain(a.Insights),
		Summary: SummaryResponse{
			TotalAccounts:  a.Summary.TotalAccounts,
			CriticalCount:  a.Summary.CriticalCount,
			WarningCount:   a.Summary.WarningCount,
			FavorableCount: a.Summary.FavorableCount,
		},
		GeneratedAt: a.GeneratedAt,
		Cached:      cached,
	}
}

// AccountTrendResponse represents an account's trend with its
// underlying history.
type AccountTrendResponse struct {
	AccountID string                       `json:"account_id"`
	Trend     *TrendResponse               `json:"trend"`
	History   []HistoricalVarianceResponse `json:"history"`
}

// HistoricalVarianceResponse represents one historical period.
type HistoricalVarianceResponse struct {
	Period          string          `json:"period"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePercent float64         `json:"variance_percent"`
}

// HistoryFromDomain converts domain history to responses.
func HistoryFromDomain(history []domain.HistoricalVariance) []HistoricalVarianceResponse {
	result := make([]HistoricalVarianceResponse, len(history))
	for i, h := range history {
		result[i] = HistoricalVarianceResponse{
			Period:          h.Period,
			Variance:        h.Variance,
			VariancePercent: h.VariancePercent,
		}
	}
	return result
}

// InvalidationResponse reports how many cached analyses were removed.
type InvalidationResponse struct {
	Invalidated int `json:"invalidated"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
