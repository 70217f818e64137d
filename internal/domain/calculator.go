package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// onTargetBand is the half-width, in percent, within which a variance
// counts as on target.
const onTargetBand = 0.5

// VarianceBasis is the raw arithmetic result for one account before
// severity classification.
type VarianceBasis struct {
	Variance        decimal.Decimal
	VariancePercent float64
	Direction       Direction
}

// ComputeVariance computes the dollar variance, percentage variance,
// and direction for a single account. A zero budget with a non-zero
// actual yields ±100 percent: not a true percentage, but a deliberate
// approximation that flags the anomaly without dividing by zero.
func ComputeVariance(budget, actual decimal.Decimal) VarianceBasis {
	variance := actual.Sub(budget)

	if budget.IsZero() && actual.IsZero() {
		return VarianceBasis{
			Variance:        decimal.Zero,
			VariancePercent: 0,
			Direction:       DirectionOnTarget,
		}
	}

	var percent float64
	if budget.IsZero() {
		if actual.IsPositive() {
			percent = 100
		} else {
			percent = -100
		}
	} else {
		percent = variance.Div(budget.Abs()).InexactFloat64() * 100
	}

	direction := DirectionOnTarget
	if math.Abs(percent) >= onTargetBand {
		if variance.IsPositive() {
			direction = DirectionOver
		} else {
			direction = DirectionUnder
		}
	}

	return VarianceBasis{
		Variance:        variance,
		VariancePercent: percent,
		Direction:       direction,
	}
}

// ClassifySeverity buckets a variance percentage. The account type's
// sign convention is applied first so that a positive normalized value
// always means unfavorable: more revenue is good, more spend is not.
func ClassifySeverity(variancePercent float64, accountType AccountType, direction Direction, t Thresholds) Severity {
	if direction == DirectionOnTarget {
		return SeverityNormal
	}

	normalized := variancePercent * accountType.signMultiplier()

	switch {
	case normalized <= t.Favorable:
		return SeverityFavorable
	case math.Abs(normalized) >= t.Critical:
		return SeverityCritical
	case math.Abs(normalized) >= t.Warning:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
