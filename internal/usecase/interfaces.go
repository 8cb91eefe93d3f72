package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
)

// EntryFilter selects a subset of entries. Zero fields are ignored.
type EntryFilter struct {
	DueFrom  *time.Time
	DueTo    *time.Time
	Category string
	Status   domain.Status
	Search   string
	Limit    int
	Offset   int
}

// IsUnfiltered reports whether the filter selects the whole ledger,
// ignoring pagination. Only unfiltered summaries are cached.
func (f EntryFilter) IsUnfiltered() bool {
	return f.DueFrom == nil && f.DueTo == nil && f.Category == "" && f.Status == "" && f.Search == ""
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	UpdateSettledAmount(ctx context.Context, tx Transaction, id string, settled decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, id string) error
}

// SettlementRepository defines data access for the append-only settlement log.
type SettlementRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.SettlementEvent) error
	ListByEntry(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error)
	GetLastByEntry(ctx context.Context, tx Transaction, entryID string) (*domain.SettlementEvent, error)
	CountByEntry(ctx context.Context, tx Transaction, entryID string) (int64, error)
	SumByEntry(ctx context.Context, tx Transaction, entryID string) (decimal.Decimal, error)
	DeleteByEntry(ctx context.Context, tx Transaction, entryID string) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// AccessGate authorizes external non-web callers by opaque identifier.
type AccessGate interface {
	Authorize(callerID string) error
}
