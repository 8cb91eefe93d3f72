package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementEvent is an append-only record of a partial or full settlement
// applied to an entry. Corrections are compensating events, never edits.
type SettlementEvent struct {
	ID        string
	EntryID   string
	Amount    decimal.Decimal
	AppliedAt time.Time
	CreatedAt time.Time
}

// Compensation returns the event that undoes this one.
func (s *SettlementEvent) Compensation(id string, appliedAt time.Time) *SettlementEvent {
	return &SettlementEvent{
		ID:        id,
		EntryID:   s.EntryID,
		Amount:    s.Amount.Neg(),
		AppliedAt: appliedAt,
		CreatedAt: appliedAt,
	}
}

// Drift is a mismatch between an entry's cached settled amount and the sum
// of its settlement event log.
type Drift struct {
	EntryID       string
	SettledAmount decimal.Decimal
	EventSum      decimal.Decimal
}

// Difference returns settled_amount - sum(events).
func (d *Drift) Difference() decimal.Decimal {
	return d.SettledAmount.Sub(d.EventSum)
}
