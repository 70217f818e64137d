package domain

import (
	"github.com/shopspring/decimal"
)

// Direction describes which side of budget an actual landed on.
type Direction string

const (
	DirectionOver     Direction = "over"
	DirectionUnder    Direction = "under"
	DirectionOnTarget Direction = "on_target"
)

// Severity buckets a variance by how much attention it deserves.
// It is always derived from (variancePercent, accountType, direction),
// never stored independently.
type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityWarning   Severity = "warning"
	SeverityNormal    Severity = "normal"
	SeverityFavorable Severity = "favorable"
)

// rank orders severities for insight sorting, most urgent first.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityFavorable:
		return 2
	default:
		return 3
	}
}

// VarianceRecord is the computed variance for one account, with
// children attached when hierarchical rollup was requested. For a
// non-leaf record Budget, Actual, and Variance are the sums of its
// children's values plus the account's own line amounts, and the
// derived fields are recomputed from those rolled-up totals.
type VarianceRecord struct {
	AccountID       string
	AccountName     string
	AccountType     AccountType
	AccountCode     string
	Period          string
	Budget          decimal.Decimal
	Actual          decimal.Decimal
	Variance        decimal.Decimal
	VariancePercent float64
	Severity        Severity
	Direction       Direction
	Level           int
	Children        []*VarianceRecord
	Insights        []Insight
	Trend           *Trend
}

// Walk visits r and every descendant in depth-first order.
func (r *VarianceRecord) Walk(visit func(*VarianceRecord)) {
	visit(r)
	for _, child := range r.Children {
		child.Walk(visit)
	}
}
