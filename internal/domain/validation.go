package domain

import (
	"fmt"
	"regexp"
)

var periodRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidatePeriod checks that a period label is zero-padded "YYYY-MM".
func ValidatePeriod(period string) error {
	if !periodRegex.MatchString(period) {
		return NewValidationError("period", fmt.Errorf("%w: got %q", ErrInvalidPeriod, period))
	}
	return nil
}

// ValidateBudgetLines checks the structural validity of budget input.
// An empty list is an error: actual-only analysis is not supported.
func ValidateBudgetLines(lines []BudgetLine) error {
	if len(lines) == 0 {
		return NewValidationError("budgetLines", ErrEmptyBudget)
	}

	for i, line := range lines {
		if line.AccountID == "" {
			return NewValidationError(fmt.Sprintf("budgetLines[%d]", i), ErrMissingAccountID)
		}
		if !line.AccountType.IsValid() {
			return NewValidationError(fmt.Sprintf("budgetLines[%d]", i),
				fmt.Errorf("%w: %q", ErrInvalidAccountType, line.AccountType))
		}
	}

	return nil
}

// ValidateActualLines checks the structural validity of actual input.
// An empty list is fine: every actual then defaults to zero.
func ValidateActualLines(lines []ActualLine) error {
	for i, line := range lines {
		if line.AccountID == "" {
			return NewValidationError(fmt.Sprintf("actualLines[%d]", i), ErrMissingAccountID)
		}
	}
	return nil
}
