package domain

import (
	"github.com/shopspring/decimal"
)

// Confidence expresses how reliable an insight's recommendation is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Synthetic account ids for whole-analysis insights.
const (
	AggregateAccountID = "aggregate"
	SystemicAccountID  = "systematic"
)

// Insight is a generated observation about one account, or about the
// whole analysis when AccountID is one of the synthetic ids.
type Insight struct {
	AccountID      string
	AccountName    string
	Severity       Severity
	Message        string
	Recommendation string
	Impact         decimal.Decimal
	Confidence     Confidence
}

// IsSynthetic reports whether the insight targets the whole analysis
// rather than a single account.
func (i Insight) IsSynthetic() bool {
	return i.AccountID == AggregateAccountID || i.AccountID == SystemicAccountID
}
