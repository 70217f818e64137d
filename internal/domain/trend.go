package domain

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// TrendDirection describes how variance percentage moves over time.
// "Improving" means the variance percentage is falling, independent of
// whether the variance itself is favorable: the trend measures how
// the mis-estimation evolves, not how the business performs.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// stableSlopeBand is the absolute regression slope below which a trend
// counts as stable, in percentage points per period.
const stableSlopeBand = 0.5

// HistoricalVariance is one period's variance for a single account.
type HistoricalVariance struct {
	Period          string
	Variance        decimal.Decimal
	VariancePercent float64
}

// Trend summarizes the direction and volatility of an account's
// variance percentage across periods.
type Trend struct {
	Direction       TrendDirection
	AverageVariance float64
	Volatility      float64
	Slope           float64
	Periods         int
}

// CalculateTrend computes a trend from at least two periods of
// history, or returns nil when there is not enough data. Input is
// sorted by period label; labels are zero-padded "YYYY-MM", so
// lexicographic order is chronological.
func CalculateTrend(history []HistoricalVariance) *Trend {
	if len(history) < 2 {
		return nil
	}

	sorted := make([]HistoricalVariance, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Period < sorted[j].Period
	})

	n := float64(len(sorted))

	var sum float64
	for _, h := range sorted {
		sum += h.VariancePercent
	}
	mean := sum / n

	var sumSq float64
	for _, h := range sorted {
		d := h.VariancePercent - mean
		sumSq += d * d
	}
	volatility := math.Sqrt(sumSq / n)

	// Least-squares slope of variance percent against period index 1..n.
	var sumX, sumY, sumXY, sumXX float64
	for i, h := range sorted {
		x := float64(i + 1)
		sumX += x
		sumY += h.VariancePercent
		sumXY += x * h.VariancePercent
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)

	direction := TrendStable
	if math.Abs(slope) >= stableSlopeBand {
		if slope < 0 {
			direction = TrendImproving
		} else {
			direction = TrendDeclining
		}
	}

	return &Trend{
		Direction:       direction,
		AverageVariance: mean,
		Volatility:      volatility,
		Slope:           slope,
		Periods:         len(sorted),
	}
}
