package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		name        string
		period      string
		expectError bool
	}{
		{"valid january", "2024-01", false},
		{"valid december", "2024-12", false},
		{"month thirteen", "2024-13", true},
		{"month zero", "2024-00", true},
		{"missing zero padding", "2024-1", true},
		{"full date", "2024-01-15", true},
		{"empty", "", true},
		{"garbage", "Q1 2024", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.period)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("expected a ValidationError, got %T", err)
				}
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Errorf("expected ErrInvalidPeriod in chain, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateBudgetLines(t *testing.T) {
	valid := BudgetLine{
		AccountID:   "acc-1",
		AccountName: "Payroll",
		AccountType: AccountTypeExpense,
		Amount:      decimal.NewFromInt(1000),
		Period:      "2024-01",
	}

	tests := []struct {
		name        string
		lines       []BudgetLine
		wantErr     error
		expectError bool
	}{
		{"valid line", []BudgetLine{valid}, nil, false},
		{"empty list", nil, ErrEmptyBudget, true},
		{
			"missing account id",
			[]BudgetLine{{AccountType: AccountTypeExpense, Period: "2024-01"}},
			ErrMissingAccountID,
			true,
		},
		{
			"unknown account type",
			[]BudgetLine{{AccountID: "x", AccountType: "goodwill", Period: "2024-01"}},
			ErrInvalidAccountType,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBudgetLines(tt.lines)

			if !tt.expectError {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v in chain, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateActualLines(t *testing.T) {
	if err := ValidateActualLines(nil); err != nil {
		t.Errorf("empty actuals must be tolerated: %v", err)
	}

	// Account type is optional on actuals; the budget side carries it.
	err := ValidateActualLines([]ActualLine{{AccountID: "a", Amount: decimal.NewFromInt(10)}})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err = ValidateActualLines([]ActualLine{{Amount: decimal.NewFromInt(10)}})
	if !errors.Is(err, ErrMissingAccountID) {
		t.Errorf("expected ErrMissingAccountID, got %v", err)
	}
}
