package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation lives on the caller side of the storage contract: the storage
// layer persists whatever it is handed. These helpers are what the UI layer
// runs before calling Add/Update.

const (
	maxDescriptionLength  = 200
	maxCategoryNameLength = 50
)

// ValidateExpense checks an expense before it is handed to storage
func ValidateExpense(e Expense) error {
	if e.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if e.Category == "" {
		return errors.New("category is required")
	}
	if e.PaymentMethod == "" {
		return errors.New("payment method is required")
	}
	return validateDateNotFuture(e.Date)
}

// ValidateIncome checks an income record before it is handed to storage
func ValidateIncome(i Income) error {
	if i.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if err := validateDescription(i.Description); err != nil {
		return err
	}
	if i.Category == "" {
		return errors.New("category is required")
	}
	return validateDateNotFuture(i.Date)
}

// ValidateInvestment checks an investment record before it is handed to storage
func ValidateInvestment(inv Investment) error {
	if strings.TrimSpace(inv.Name) == "" {
		return errors.New("name is required")
	}
	if inv.Amount <= 0 {
		return errors.New("invested amount must be greater than zero")
	}
	if inv.CurrentValue < 0 {
		return errors.New("current value must not be negative")
	}
	return nil
}

// ValidateCategoryName checks a category name before create or rename
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("category name is required")
	}
	if len(name) > maxCategoryNameLength {
		return fmt.Errorf("category name must be at most %d characters", maxCategoryNameLength)
	}
	return nil
}

// ValidateBudget checks budget limits: the monthly cap and every per-category
// cap must be non-negative.
func ValidateBudget(b Budget) error {
	if b.Monthly < 0 {
		return errors.New("budget must not be negative")
	}
	for category, limit := range b.Categories {
		if limit < 0 {
			return fmt.Errorf("budget for category %s must not be negative", category)
		}
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errors.New("description is required")
	}
	if len(description) > maxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", maxDescriptionLength)
	}
	return nil
}

// validateDateNotFuture rejects any date strictly after the current moment.
// Date-only values parse to midnight UTC, so today's date always passes.
func validateDateNotFuture(date string) error {
	parsed, err := time.Parse(time.RFC3339, date)
	if err != nil {
		// Dates may also arrive as plain YYYY-MM-DD
		parsed, err = time.Parse("2006-01-02", date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", date, err)
		}
	}
	if parsed.After(time.Now()) {
		return errors.New("date must not be in the future")
	}
	return nil
}
