package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the settlement state of an entry. It is always derived from
// Amount and SettledAmount, never stored.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusPartiallySettled Status = "PARTIALLY_SETTLED"
	StatusSettled          Status = "SETTLED"
)

// Entry is a single receivable (positive amount) or payable (negative amount).
// The sign of Amount is the sole polarity indicator.
type Entry struct {
	ID            string
	Description   string
	Category      string
	DueDate       time.Time
	Amount        decimal.Decimal
	SettledAmount decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status derives the settlement state from the cached settlement projection.
func (e *Entry) Status() Status {
	switch {
	case e.SettledAmount.IsZero():
		return StatusPending
	case e.SettledAmount.Abs().GreaterThanOrEqual(e.Amount.Abs()):
		return StatusSettled
	default:
		return StatusPartiallySettled
	}
}

// Outstanding returns amount - settled_amount, preserving sign. It is the
// net amount still expected to move.
func (e *Entry) Outstanding() decimal.Decimal {
	return e.Amount.Sub(e.SettledAmount)
}

// IsReceivable reports whether the entry expects money in.
func (e *Entry) IsReceivable() bool {
	return e.Amount.Sign() > 0
}

// ValidateSettlement checks whether amount can be applied to the entry.
func (e *Entry) ValidateSettlement(amount decimal.Decimal) error {
	if amount.IsZero() {
		return ErrInvalidAmount
	}

	if amount.Sign() != e.Amount.Sign() {
		return ErrInvalidPolarity
	}

	if e.SettledAmount.Abs().Add(amount.Abs()).GreaterThan(e.Amount.Abs()) {
		return ErrOverSettlement
	}

	return nil
}

// ApplySettlement returns the new settled amount after applying amount.
func (e *Entry) ApplySettlement(amount decimal.Decimal) decimal.Decimal {
	return e.SettledAmount.Add(amount)
}

// ValidateSettledProjection checks whether settled is a storable projection
// for the entry: zero or matching the amount's sign, and never exceeding the
// amount's magnitude. The entry amount may have changed since the events in
// the log were recorded, so a replayed event is not automatically valid.
func (e *Entry) ValidateSettledProjection(settled decimal.Decimal) error {
	if !settled.IsZero() && settled.Sign() != e.Amount.Sign() {
		return ErrInvalidPolarity
	}

	if settled.Abs().GreaterThan(e.Amount.Abs()) {
		return ErrOverSettlement
	}

	return nil
}
