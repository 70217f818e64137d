package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisSummary holds the roll-up counts for one analysis.
type AnalysisSummary struct {
	TotalAccounts  int
	CriticalCount  int
	WarningCount   int
	FavorableCount int
}

// AnalysisResult is the engine's output for one period. It is
// constructed fresh on every non-cached call and immutable afterwards.
type AnalysisResult struct {
	ID                   string
	OrganizationID       string
	BoardID              string
	Period               string
	TotalBudget          decimal.Decimal
	TotalActual          decimal.Decimal
	TotalVariance        decimal.Decimal
	TotalVariancePercent float64
	Records              []*VarianceRecord
	DemotedAccountIDs    []string
	Insights             []Insight
	Summary              AnalysisSummary
	GeneratedAt          time.Time
	CacheKey             string
}
