package domain

import "github.com/shopspring/decimal"

// Summary holds consolidated totals over a set of entries. Payables stay
// negative, so NetBalance = TotalReceivable + TotalPayable.
type Summary struct {
	TotalReceivable  decimal.Decimal `json:"total_receivable"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	CountPending     int             `json:"count_pending"`
	CountPartial     int             `json:"count_partial"`
	CountSettled     int             `json:"count_settled"`
}

// NewSummary returns a zero-valued summary with explicit zero decimals so
// JSON output shows "0" instead of null-ish defaults.
func NewSummary() *Summary {
	return &Summary{
		TotalReceivable:  decimal.Zero,
		TotalPayable:     decimal.Zero,
		NetBalance:       decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
}

// Add folds a single entry into the summary. Call it once per entry; a full
// summary is one pass over the filtered sequence.
func (s *Summary) Add(e *Entry) {
	if e.IsReceivable() {
		s.TotalReceivable = s.TotalReceivable.Add(e.Amount)
	} else {
		s.TotalPayable = s.TotalPayable.Add(e.Amount)
	}

	s.NetBalance = s.NetBalance.Add(e.Amount)
	s.TotalOutstanding = s.TotalOutstanding.Add(e.Outstanding())

	switch e.Status() {
	case StatusPending:
		s.CountPending++
	case StatusPartiallySettled:
		s.CountPartial++
	case StatusSettled:
		s.CountSettled++
	}
}
