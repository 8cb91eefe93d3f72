package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

// MockEntryRepository is an in-memory mock of EntryRepository. Default
// behavior acts on the internal map; set a Func field to override a method.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error)
	ListFunc                func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
	UpdateFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	UpdateSettledAmountFunc func(ctx context.Context, tx usecase.Transaction, id string, settled decimal.Decimal, updatedAt time.Time) error
	DeleteFunc              func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{entries: make(map[string]*domain.Entry)}
}

// Seed stores an entry directly, bypassing any Func override.
func (m *MockEntryRepository) Seed(entry *domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[entry.ID] = &copied
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Status != "" && e.Status() != filter.Status {
			continue
		}
		copied := *e
		entries = append(entries, &copied)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DueDate.Equal(entries[j].DueDate) {
			return entries[i].DueDate.Before(entries[j].DueDate)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (m *MockEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return nil
}

func (m *MockEntryRepository) UpdateSettledAmount(ctx context.Context, tx usecase.Transaction, id string, settled decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateSettledAmountFunc != nil {
		return m.UpdateSettledAmountFunc(ctx, tx, id, settled, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.SettledAmount = settled
	e.UpdatedAt = updatedAt
	return nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

// MockSettlementRepository is an in-memory mock of SettlementRepository.
type MockSettlementRepository struct {
	mu     sync.RWMutex
	events map[string][]*domain.SettlementEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.SettlementEvent) error
	ListByEntryFunc    func(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error)
	GetLastByEntryFunc func(ctx context.Context, tx usecase.Transaction, entryID string) (*domain.SettlementEvent, error)
	CountByEntryFunc   func(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error)
	SumByEntryFunc     func(ctx context.Context, tx usecase.Transaction, entryID string) (decimal.Decimal, error)
	DeleteByEntryFunc  func(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error)
}

func NewMockSettlementRepository() *MockSettlementRepository {
	return &MockSettlementRepository{events: make(map[string][]*domain.SettlementEvent)}
}

func (m *MockSettlementRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.SettlementEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *event
	m.events[event.EntryID] = append(m.events[event.EntryID], &copied)
	return nil
}

func (m *MockSettlementRepository) ListByEntry(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error) {
	if m.ListByEntryFunc != nil {
		return m.ListByEntryFunc(ctx, entryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]*domain.SettlementEvent, 0, len(m.events[entryID]))
	for _, e := range m.events[entryID] {
		copied := *e
		events = append(events, &copied)
	}
	return events, nil
}

func (m *MockSettlementRepository) GetLastByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (*domain.SettlementEvent, error) {
	if m.GetLastByEntryFunc != nil {
		return m.GetLastByEntryFunc(ctx, tx, entryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := m.events[entryID]
	if len(events) == 0 {
		return nil, domain.ErrNothingToReverse
	}
	copied := *events[len(events)-1]
	return &copied, nil
}

func (m *MockSettlementRepository) CountByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error) {
	if m.CountByEntryFunc != nil {
		return m.CountByEntryFunc(ctx, tx, entryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.events[entryID])), nil
}

func (m *MockSettlementRepository) SumByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (decimal.Decimal, error) {
	if m.SumByEntryFunc != nil {
		return m.SumByEntryFunc(ctx, tx, entryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.events[entryID] {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func (m *MockSettlementRepository) DeleteByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error) {
	if m.DeleteByEntryFunc != nil {
		return m.DeleteByEntryFunc(ctx, tx, entryID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.events[entryID]))
	delete(m.events, entryID)
	return n, nil
}

// MockOutboxRepository is an in-memory mock of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unpublished []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			unpublished = append(unpublished, e)
		}
		if len(unpublished) == limit {
			break
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return fmt.Errorf("outbox event %s not found", id)
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	Committed   bool
	RolledBack  bool
	RollbackErr error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.RolledBack = true
	return t.RollbackErr
}

// MockTransactionManager hands out no-op transactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockCache is an in-memory mock of Cache.
type MockCache struct {
	mu      sync.RWMutex
	values  map[string][]byte
	Deletes int

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	m.Deletes++
	return nil
}

// MockAccessGate authorizes everything unless AuthorizeFunc is set.
type MockAccessGate struct {
	AuthorizeFunc func(callerID string) error
	Calls         []string
}

func NewMockAccessGate() *MockAccessGate {
	return &MockAccessGate{}
}

func (m *MockAccessGate) Authorize(callerID string) error {
	m.Calls = append(m.Calls, callerID)
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(callerID)
	}
	return nil
}
