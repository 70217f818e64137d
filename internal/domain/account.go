package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account for variance sign conventions.
type AccountType string

const (
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeRevenue, AccountTypeExpense, AccountTypeAsset,
		AccountTypeLiability, AccountTypeEquity:
		return true
	}
	return false
}

// signMultiplier normalizes a variance percentage so that positive
// always means unfavorable. For revenue, liability, and equity a
// shortfall (negative variance) is the bad case, so the sign inverts.
func (t AccountType) signMultiplier() float64 {
	switch t {
	case AccountTypeRevenue, AccountTypeLiability, AccountTypeEquity:
		return -1
	default:
		return 1
	}
}

// BudgetLine is a planned amount for one account in one period.
// Lines are caller-owned input; the engine never mutates them.
type BudgetLine struct {
	AccountID       string
	AccountName     string
	AccountType     AccountType
	AccountCode     string
	Amount          decimal.Decimal
	Period          string
	ParentAccountID string
}

// ActualLine is a realized amount for one account, period-aligned
// with the corresponding BudgetLine.
type ActualLine struct {
	AccountID       string
	AccountName     string
	AccountType     AccountType
	AccountCode     string
	Amount          decimal.Decimal
	Period          string
	ParentAccountID string
}
