package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

// EntryResponse represents an entry in API responses. Status and outstanding
// are derived on the way out, never stored.
type EntryResponse struct {
	ID            string          `json:"id"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	DueDate       string          `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		Description:   e.Description,
		Category:      e.Category,
		DueDate:       e.DueDate.Format(dateLayout),
		Amount:        e.Amount,
		SettledAmount: e.SettledAmount,
		Outstanding:   e.Outstanding(),
		Status:        string(e.Status()),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// SettlementEventResponse represents a settlement event in API responses.
type SettlementEventResponse struct {
	ID        string          `json:"id"`
	EntryID   string          `json:"entry_id"`
	Amount    decimal.Decimal `json:"amount"`
	AppliedAt time.Time       `json:"applied_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// SettlementEventFromDomain converts a domain settlement event to a response.
func SettlementEventFromDomain(e *domain.SettlementEvent) *SettlementEventResponse {
	return &SettlementEventResponse{
		ID:        e.ID,
		EntryID:   e.EntryID,
		Amount:    e.Amount,
		AppliedAt: e.AppliedAt,
		CreatedAt: e.CreatedAt,
	}
}

// SettlementEventsFromDomain converts domain settlement events to responses.
func SettlementEventsFromDomain(events []*domain.SettlementEvent) []*SettlementEventResponse {
	result := make([]*SettlementEventResponse, len(events))
	for i, e := range events {
		result[i] = SettlementEventFromDomain(e)
	}
	return result
}

// SummaryResponse represents consolidated totals in API responses.
type SummaryResponse struct {
	TotalReceivable  decimal.Decimal `json:"total_receivable"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	CountPending     int             `json:"count_pending"`
	CountPartial     int             `json:"count_partial"`
	CountSettled     int             `json:"count_settled"`
}

// SummaryFromDomain converts a domain summary to a response.
func SummaryFromDomain(s *domain.Summary) *SummaryResponse {
	return &SummaryResponse{
		TotalReceivable:  s.TotalReceivable,
		TotalPayable:     s.TotalPayable,
		NetBalance:       s.NetBalance,
		TotalOutstanding: s.TotalOutstanding,
		CountPending:     s.CountPending,
		CountPartial:     s.CountPartial,
		CountSettled:     s.CountSettled,
	}
}

// ChatCommandResponse wraps a facade result.
type ChatCommandResponse struct {
	Entry   *EntryResponse             `json:"entry,omitempty"`
	Entries []*EntryResponse           `json:"entries,omitempty"`
	Events  []*SettlementEventResponse `json:"events,omitempty"`
	Summary *SummaryResponse           `json:"summary,omitempty"`
	Deleted bool                       `json:"deleted,omitempty"`
}

// ChatCommandFromResult converts a facade result to a response.
func ChatCommandFromResult(r *usecase.Result) *ChatCommandResponse {
	resp := &ChatCommandResponse{Deleted: r.Deleted}

	if r.Entry != nil {
		resp.Entry = EntryFromDomain(r.Entry)
	}
	if r.Entries != nil {
		resp.Entries = EntriesFromDomain(r.Entries)
	}
	if r.Events != nil {
		resp.Events = SettlementEventsFromDomain(r.Events)
	}
	if r.Summary != nil {
		resp.Summary = SummaryFromDomain(r.Summary)
	}

	return resp
}

// ConsistencyResponse represents the projection consistency report.
type ConsistencyResponse struct {
	CheckedAt  time.Time        `json:"checked_at"`
	Consistent bool             `json:"consistent"`
	Drift      []*DriftResponse `json:"drift,omitempty"`
}

// DriftResponse represents a single drifted entry.
type DriftResponse struct {
	EntryID       string          `json:"entry_id"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	EventSum      decimal.Decimal `json:"event_sum"`
	Difference    decimal.Decimal `json:"difference"`
}

// ConsistencyFromReport converts a projection report to a response.
func ConsistencyFromReport(r *usecase.ProjectionReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		CheckedAt:  r.CheckedAt,
		Consistent: r.Consistent,
	}

	for _, d := range r.Drift {
		resp.Drift = append(resp.Drift, &DriftResponse{
			EntryID:       d.EntryID,
			SettledAmount: d.SettledAmount,
			EventSum:      d.EventSum,
			Difference:    d.Difference(),
		})
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
