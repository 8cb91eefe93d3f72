package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidPrecision   = errors.New("amount has more than 2 fractional digits")
	ErrInvalidDescription = errors.New("invalid description")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidDueDate     = errors.New("invalid due date")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxCategoryLength    = 100
	MaxEntryAmount       = "1000000000"
)

// ValidateEntryAmount validates a signed entry or settlement amount.
// Zero is rejected: a zero amount has no polarity.
func ValidateEntryAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return fmt.Errorf("%w: amount cannot be zero", ErrInvalidAmount)
	}

	if amount.Exponent() < -2 {
		return ErrInvalidPrecision
	}

	maxAmount, _ := decimal.NewFromString(MaxEntryAmount)
	if amount.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum magnitude is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidateDescription validates an entry description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidDescription)
	}

	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidateCategory validates a category tag against the configured set.
// An empty allowed set accepts any non-empty tag.
func ValidateCategory(category string, allowed []string) error {
	category = strings.TrimSpace(category)

	if category == "" {
		return fmt.Errorf("%w: category cannot be empty", ErrInvalidCategory)
	}

	if len(category) > MaxCategoryLength {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidCategory, MaxCategoryLength)
	}

	if len(allowed) == 0 {
		return nil
	}

	for _, a := range allowed {
		if strings.EqualFold(category, a) {
			return nil
		}
	}

	return fmt.Errorf("%w: %q is not a configured category", ErrInvalidCategory, category)
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
