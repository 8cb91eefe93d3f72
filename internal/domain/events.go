package domain

import "time"

// Event types
const (
	EventTypeEntryCreated       = "entry.created"
	EventTypeEntryUpdated       = "entry.updated"
	EventTypeEntryDeleted       = "entry.deleted"
	EventTypeEntrySettled       = "entry.settled"
	EventTypeSettlementReversed = "settlement.reversed"
)

// Aggregate types
const (
	AggregateTypeEntry = "entry"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntrySettledEvent payload
type EntrySettledEvent struct {
	EntryID       string `json:"entry_id"`
	EventID       string `json:"event_id"`
	Amount        string `json:"amount"`
	SettledAmount string `json:"settled_amount"`
	Status        string `json:"status"`
	AppliedAt     string `json:"applied_at"`
}

// SettlementReversedEvent payload
type SettlementReversedEvent struct {
	EntryID         string `json:"entry_id"`
	ReversedEventID string `json:"reversed_event_id"`
	Amount          string `json:"amount"`
	SettledAmount   string `json:"settled_amount"`
}

// EntryDeletedEvent payload
type EntryDeletedEvent struct {
	EntryID       string `json:"entry_id"`
	Description   string `json:"description"`
	EventsRemoved int    `json:"events_removed"`
}
