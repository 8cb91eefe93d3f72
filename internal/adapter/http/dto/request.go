package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

const dateLayout = "2006-01-02"

// CreateEntryRequest represents a request to create an entry.
type CreateEntryRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Category    string          `json:"category,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput() (usecase.CreateEntryInput, error) {
	dueDate, err := parseDate(r.DueDate)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	return usecase.CreateEntryInput{
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     dueDate,
		Category:    r.Category,
	}, nil
}

// UpdateEntryRequest is a partial update; absent fields are left unchanged.
type UpdateEntryRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	DueDate     *string          `json:"due_date,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput() (usecase.UpdateEntryInput, error) {
	input := usecase.UpdateEntryInput{
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
	}

	if r.DueDate != nil {
		dueDate, err := parseDate(*r.DueDate)
		if err != nil {
			return usecase.UpdateEntryInput{}, err
		}
		input.DueDate = &dueDate
	}

	return input, nil
}

// SettleRequest represents a request to apply a partial settlement.
type SettleRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	AppliedAt *time.Time      `json:"applied_at,omitempty"`
}

// SettleFullRequest represents a request to settle the outstanding remainder.
type SettleFullRequest struct {
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// ChatCommandRequest is the payload of the chat gateway endpoint. The caller
// identifier is opaque; the access gate decides whether it may proceed.
type ChatCommandRequest struct {
	CallerID string          `json:"caller_id"`
	Command  usecase.Command `json:"command"`
}

// ListEntriesQuery holds the parsed query string of the list endpoint.
type ListEntriesQuery struct {
	DueFrom  string
	DueTo    string
	Category string
	Status   string
	Search   string
	Limit    int
	Offset   int
}

// ToFilter converts the query to a use case filter.
func (q *ListEntriesQuery) ToFilter() (usecase.EntryFilter, error) {
	filter := usecase.EntryFilter{
		Category: q.Category,
		Search:   q.Search,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}

	if q.DueFrom != "" {
		from, err := parseDate(q.DueFrom)
		if err != nil {
			return usecase.EntryFilter{}, err
		}
		filter.DueFrom = &from
	}

	if q.DueTo != "" {
		to, err := parseDate(q.DueTo)
		if err != nil {
			return usecase.EntryFilter{}, err
		}
		filter.DueTo = &to
	}

	if q.Status != "" {
		status, err := parseStatus(q.Status)
		if err != nil {
			return usecase.EntryFilter{}, err
		}
		filter.Status = status
	}

	return filter, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func parseStatus(value string) (domain.Status, error) {
	switch domain.Status(value) {
	case domain.StatusPending, domain.StatusPartiallySettled, domain.StatusSettled:
		return domain.Status(value), nil
	default:
		return "", fmt.Errorf("invalid status %q", value)
	}
}
