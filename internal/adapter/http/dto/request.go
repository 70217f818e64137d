package dto

import (
	"github.com/shopspring/decimal"

	"github.com/finboard/variance/internal/domain"
	"github.com/finboard/variance/internal/usecase"
)

// BudgetLineRequest represents one planned amount in an analysis request.
type BudgetLineRequest struct {
	AccountID       string          `json:"account_id"`
	AccountName     string          `json:"account_name"`
	AccountType     string          `json:"account_type"`
	AccountCode     string          `json:"account_code,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Period          string          `json:"period,omitempty"`
	ParentAccountID string          `json:"parent_account_id,omitempty"`
}

// ActualLineRequest represents one actual amount in an analysis request.
type ActualLineRequest struct {
	AccountID       string          `json:"account_id"`
	AccountName     string          `json:"account_name,omitempty"`
	AccountType     string          `json:"account_type,omitempty"`
	AccountCode     string          `json:"account_code,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Period          string          `json:"period,omitempty"`
	ParentAccountID string          `json:"parent_account_id,omitempty"`
}

// AnalyzeOptionsRequest carries per-request analysis switches. Every
// flag is off by default; insights are generated unless suppressed,
// so an omitted or empty options object keeps them on.
type AnalyzeOptionsRequest struct {
	IncludeZeroVariances  bool `json:"include_zero_variances"`
	IncludeChildren       bool `json:"include_children"`
	SuppressInsights      bool `json:"suppress_insights"`
	IncludeNormalInsights bool `json:"include_normal_insights"`
	IncludeTrends         bool `json:"include_trends"`
	TrendLookback         int  `json:"trend_lookback,omitempty"`
}

// AnalyzeRequest represents a request to run a variance analysis.
// Force is not part of the body; the handler sets it from the
// force=true query parameter.
type AnalyzeRequest struct {
	OrganizationID string                 `json:"organization_id"`
	BoardID        string                 `json:"board_id"`
	Period         string                 `json:"period"`
	Budget         []BudgetLineRequest    `json:"budget"`
	Actuals        []ActualLineRequest    `json:"actuals"`
	Options        *AnalyzeOptionsRequest `json:"options,omitempty"`
	Force          bool                   `json:"-"`
}

// ToUseCaseInput converts to use case input.
func (r *AnalyzeRequest) ToUseCaseInput() usecase.AnalyzeInput {
	budget := make([]domain.BudgetLine, len(r.Budget))
	for i, l := range r.Budget {
		budget[i] = domain.BudgetLine{
			AccountID:       l.AccountID,
			AccountName:     l.AccountName,
			AccountType:     domain.AccountType(l.AccountType),
			AccountCode:     l.AccountCode,
			Amount:          l.Amount,
			Period:          l.Period,
			ParentAccountID: l.ParentAccountID,
		}
	}

	actuals := make([]domain.ActualLine, len(r.Actuals))
	for i, l := range r.Actuals {
		actuals[i] = domain.ActualLine{
			AccountID:       l.AccountID,
			AccountName:     l.AccountName,
			AccountType:     domain.AccountType(l.AccountType),
			AccountCode:     l.AccountCode,
			Amount:          l.Amount,
			Period:          l.Period,
			ParentAccountID: l.ParentAccountID,
		}
	}

	opts := usecase.DefaultAnalyzeOptions()
	if r.Options != nil {
		opts.IncludeZeroVariances = r.Options.IncludeZeroVariances
		opts.IncludeChildren = r.Options.IncludeChildren
		opts.SuppressInsights = r.Options.SuppressInsights
		opts.IncludeNormalInsights = r.Options.IncludeNormalInsights
		opts.IncludeTrends = r.Options.IncludeTrends
		if r.Options.TrendLookback > 0 {
			opts.TrendLookback = r.Options.TrendLookback
		}
	}

	return usecase.AnalyzeInput{
		OrganizationID: r.OrganizationID,
		BoardID:        r.BoardID,
		Period:         r.Period,
		BudgetLines:    budget,
		ActualLines:    actuals,
		Options:        opts,
		Force:          r.Force,
	}
}
