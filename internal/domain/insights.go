package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregate insight cut points, in dollars.
var (
	aggregateMinImpact      = decimal.NewFromInt(1000)
	aggregateCriticalImpact = decimal.NewFromInt(50000)
)

// systemicMinCritical is how many critical accounts it takes before a
// pattern stops looking like noise.
const systemicMinCritical = 3

// InsightOptions controls insight generation.
type InsightOptions struct {
	// IncludeNormal also emits confirmatory insights for on-plan
	// accounts.
	IncludeNormal bool
}

// GenerateInsights produces ranked observations for a flat list of
// variance records: one per significant account, plus an aggregate
// net-impact insight and a systemic insight when their own conditions
// hold. The three kinds are independent and may coexist.
func GenerateInsights(records []*VarianceRecord, opts InsightOptions) []Insight {
	insights := make([]Insight, 0, len(records))

	for _, rec := range records {
		if rec.Severity == SeverityNormal && !opts.IncludeNormal {
			continue
		}
		insights = append(insights, accountInsight(rec))
	}

	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Severity.rank() != insights[j].Severity.rank() {
			return insights[i].Severity.rank() < insights[j].Severity.rank()
		}
		return insights[i].Impact.GreaterThan(insights[j].Impact)
	})

	if agg, ok := aggregateInsight(records); ok {
		insights = append(insights, agg)
	}
	if sys, ok := systemicInsight(records); ok {
		insights = append(insights, sys)
	}

	return insights
}

func accountInsight(rec *VarianceRecord) Insight {
	in := Insight{
		AccountID:   rec.AccountID,
		AccountName: rec.AccountName,
		Severity:    rec.Severity,
		Impact:      rec.Variance.Abs(),
	}
	absPct := math.Abs(rec.VariancePercent)

	switch {
	case rec.Severity == SeverityFavorable:
		in.Message = fmt.Sprintf("%s is performing better than budget (%.1f%% favorable)",
			rec.AccountName, absPct)
		in.Confidence = ConfidenceLow
		if absPct >= 10 {
			in.Confidence = ConfidenceMedium
		}

	case rec.Severity == SeverityNormal:
		in.Message = fmt.Sprintf("%s is tracking within the expected range of budget", rec.AccountName)
		in.Confidence = ConfidenceHigh

	case rec.AccountType == AccountTypeRevenue && rec.Direction == DirectionUnder:
		in.Message = fmt.Sprintf("%s is %.1f%% below budget ($%s shortfall)",
			rec.AccountName, absPct, rec.Variance.Abs().StringFixed(2))
		if rec.Severity == SeverityCritical {
			in.Recommendation = "Review the sales pipeline and pricing assumptions to close the revenue gap"
			in.Confidence = ConfidenceHigh
		} else {
			in.Recommendation = "Monitor revenue drivers closely over the next period"
			in.Confidence = ConfidenceMedium
		}

	case rec.AccountType == AccountTypeExpense && rec.Direction == DirectionOver:
		in.Message = fmt.Sprintf("%s is %.1f%% over budget ($%s overspend)",
			rec.AccountName, absPct, rec.Variance.Abs().StringFixed(2))
		if rec.Severity == SeverityCritical {
			in.Recommendation = "Implement cost controls and freeze discretionary spend for this account"
			in.Confidence = ConfidenceHigh
		} else {
			in.Recommendation = "Review spending authorizations for this account"
			in.Confidence = ConfidenceMedium
		}
		if rec.Trend != nil && rec.Trend.Direction == TrendDeclining {
			in.Recommendation += "; the variance has worsened across recent periods, escalate the review"
			in.Confidence = ConfidenceHigh
		}

	default:
		in.Message = fmt.Sprintf("%s deviates from budget by %.1f%% ($%s)",
			rec.AccountName, absPct, rec.Variance.Abs().StringFixed(2))
		in.Recommendation = "Investigate the drivers behind this variance"
		in.Confidence = ConfidenceMedium
		if rec.Severity == SeverityCritical {
			in.Confidence = ConfidenceHigh
		}
	}

	return in
}

// aggregateInsight nets revenue variance against expense variance
// across the whole analysis. Positive net impact means realized
// performance beat plan overall.
func aggregateInsight(records []*VarianceRecord) (Insight, bool) {
	net := decimal.Zero
	for _, rec := range records {
		switch rec.AccountType {
		case AccountTypeRevenue:
			net = net.Add(rec.Variance)
		case AccountTypeExpense:
			net = net.Sub(rec.Variance)
		}
	}

	if net.Abs().LessThanOrEqual(aggregateMinImpact) {
		return Insight{}, false
	}

	severity := SeverityWarning
	if net.Abs().GreaterThan(aggregateCriticalImpact) {
		severity = SeverityCritical
	}

	in := Insight{
		AccountID:   AggregateAccountID,
		AccountName: "Overall analysis",
		Severity:    severity,
		Impact:      net.Abs(),
		Confidence:  ConfidenceHigh,
	}

	if net.IsPositive() {
		in.Message = fmt.Sprintf("Overall performance is favorable: net variance impact of $%s", net.StringFixed(2))
	} else {
		in.Message = fmt.Sprintf("Overall performance is unfavorable: net variance impact of $%s", net.Abs().StringFixed(2))
		in.Recommendation = "Focus on the largest contributors: " + strings.Join(topAccountNames(records, 3), ", ")
	}

	return in, true
}

// systemicInsight fires when critical variances cluster, which points
// at the budgeting process rather than individual accounts.
func systemicInsight(records []*VarianceRecord) (Insight, bool) {
	impact := decimal.Zero
	count := 0
	for _, rec := range records {
		if rec.Severity == SeverityCritical {
			count++
			impact = impact.Add(rec.Variance.Abs())
		}
	}

	if count < systemicMinCritical {
		return Insight{}, false
	}

	return Insight{
		AccountID:      SystemicAccountID,
		AccountName:    "Systemic analysis",
		Severity:       SeverityCritical,
		Message:        fmt.Sprintf("%d accounts show critical variances, indicating a systemic budgeting issue", count),
		Recommendation: "Revisit budget assumptions and the forecasting methodology across the board",
		Impact:         impact,
		Confidence:     ConfidenceHigh,
	}, true
}

func topAccountNames(records []*VarianceRecord, n int) []string {
	sorted := make([]*VarianceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Variance.Abs().GreaterThan(sorted[j].Variance.Abs())
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	names := make([]string, 0, len(sorted))
	for _, rec := range sorted {
		names = append(names, rec.AccountName)
	}
	return names
}
