package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
)

// Command names accepted by the facade.
const (
	CommandList        = "list"
	CommandCreate      = "create"
	CommandUpdate      = "update"
	CommandDelete      = "delete"
	CommandClone       = "clone"
	CommandSettle      = "settle"
	CommandSettleFull  = "settle_full"
	CommandReverseLast = "reverse_last"
	CommandSummary     = "summary"
)

// Command is a facade request keyed by a textual command name. External
// callers (the chat gateway) parse their own syntax and send one of these.
type Command struct {
	Name        string           `json:"name"`
	EntryID     string           `json:"entry_id,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Category    *string          `json:"category,omitempty"`
	AppliedAt   *time.Time       `json:"applied_at,omitempty"`
	Cascade     bool             `json:"cascade,omitempty"`
	Filter      EntryFilter      `json:"filter,omitempty"`
}

// Result is the facade's uniform reply shape. Exactly one of the payload
// fields is set, matching the command.
type Result struct {
	Entry   *domain.Entry             `json:"entry,omitempty"`
	Entries []*domain.Entry           `json:"entries,omitempty"`
	Events  []*domain.SettlementEvent `json:"events,omitempty"`
	Summary *domain.Summary           `json:"summary,omitempty"`
	Deleted bool                      `json:"deleted,omitempty"`
}

// Facade is the single query/command surface shared by all external callers.
// It authorizes the caller, dispatches to the underlying use cases, and does
// no business logic of its own.
type Facade struct {
	gate         AccessGate
	entryUC      *EntryUseCase
	settlementUC *SettlementUseCase
	summaryUC    *SummaryUseCase
}

// NewFacade creates a new Facade.
func NewFacade(gate AccessGate, entryUC *EntryUseCase, settlementUC *SettlementUseCase, summaryUC *SummaryUseCase) *Facade {
	return &Facade{
		gate:         gate,
		entryUC:      entryUC,
		settlementUC: settlementUC,
		summaryUC:    summaryUC,
	}
}

// Dispatch authorizes callerID and executes cmd. Chat callers are untrusted,
// so every command goes through the gate, reads included.
func (f *Facade) Dispatch(ctx context.Context, callerID string, cmd Command) (*Result, error) {
	if err := f.gate.Authorize(callerID); err != nil {
		return nil, err
	}

	switch cmd.Name {
	case CommandList:
		entries, err := f.entryUC.ListEntries(ctx, cmd.Filter)
		if err != nil {
			return nil, err
		}
		return &Result{Entries: entries}, nil

	case CommandCreate:
		input := CreateEntryInput{}
		if cmd.Description != nil {
			input.Description = *cmd.Description
		}
		if cmd.Amount != nil {
			input.Amount = *cmd.Amount
		}
		if cmd.DueDate != nil {
			input.DueDate = *cmd.DueDate
		}
		if cmd.Category != nil {
			input.Category = *cmd.Category
		}

		entry, err := f.entryUC.CreateEntry(ctx, input)
		if err != nil {
			return nil, err
		}
		return &Result{Entry: entry}, nil

	case CommandUpdate:
		entry, err := f.entryUC.UpdateEntry(ctx, cmd.EntryID, UpdateEntryInput{
			Description: cmd.Description,
			Amount:      cmd.Amount,
			DueDate:     cmd.DueDate,
			Category:    cmd.Category,
		})
		if err != nil {
			return nil, err
		}
		return &Result{Entry: entry}, nil

	case CommandDelete:
		if err := f.entryUC.DeleteEntry(ctx, cmd.EntryID, cmd.Cascade); err != nil {
			return nil, err
		}
		return &Result{Deleted: true}, nil

	case CommandClone:
		entry, err := f.entryUC.CloneEntry(ctx, cmd.EntryID)
		if err != nil {
			return nil, err
		}
		return &Result{Entry: entry}, nil

	case CommandSettle:
		if cmd.Amount == nil {
			return nil, domain.ErrInvalidAmount
		}

		entry, err := f.settlementUC.Settle(ctx, cmd.EntryID, *cmd.Amount, appliedAt(cmd))
		if err != nil {
			return nil, err
		}
		return &Result{Entry: entry}, nil

	case CommandSettleFull:
		entry, err := f.settlementUC.SettleFull(ctx, cmd.EntryID, appliedAt(cmd))
		if err != nil {
			return nil, err
		}
		return &Result{Entry: entry}, nil

	case CommandReverseLast:
		entry, err := f.settlementUC.ReverseLast(ctx, cmd.EntryID)
		if err != nil {
			return nil, err
		}
		return &Result{Entry: entry}, nil

	case CommandSummary:
		summary, err := f.summaryUC.Summarize(ctx, cmd.Filter)
		if err != nil {
			return nil, err
		}
		return &Result{Summary: summary}, nil

	default:
		return nil, domain.ErrUnknownCommand
	}
}

func appliedAt(cmd Command) time.Time {
	if cmd.AppliedAt != nil {
		return *cmd.AppliedAt
	}
	return time.Time{}
}
