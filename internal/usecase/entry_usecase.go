package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/infrastructure/metrics"
)

// EntryUseCase handles entry lifecycle business logic.
type EntryUseCase struct {
	txManager       TransactionManager
	entryRepo       EntryRepository
	settlementRepo  SettlementRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	cache           Cache
	metrics         *metrics.Metrics
	defaultCategory string
	categories      []string
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	settlementRepo SettlementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
	defaultCategory string,
	categories []string,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:       txManager,
		entryRepo:       entryRepo,
		settlementRepo:  settlementRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		cache:           cache,
		metrics:         metrics,
		defaultCategory: defaultCategory,
		categories:      categories,
	}
}

// CreateEntryInput represents input for creating an entry.
type CreateEntryInput struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Category    string
}

// CreateEntry creates a new pending entry.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := domain.ValidateEntryAmount(input.Amount); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = uc.defaultCategory
	}

	if err := domain.ValidateCategory(category, uc.categories); err != nil {
		return nil, err
	}

	if input.DueDate.IsZero() {
		return nil, domain.ErrInvalidDueDate
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:            uc.idGen.Generate(),
		Description:   strings.TrimSpace(input.Description),
		Category:      category,
		DueDate:       input.DueDate,
		Amount:        input.Amount,
		SettledAmount: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryCreated,
		Payload: map[string]any{
			"entry_id":    entry.ID,
			"description": entry.Description,
			"amount":      entry.Amount.String(),
			"due_date":    entry.DueDate.Format("2006-01-02"),
			"category":    entry.Category,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
	}

	return entry, nil
}

// GetEntry retrieves a single entry.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// ListEntries lists entries matching the filter, ordered by due date then id.
func (uc *EntryUseCase) ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.entryRepo.List(ctx, filter)
}

// ListSettlements lists the settlement event log of an entry.
func (uc *EntryUseCase) ListSettlements(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error) {
	if _, err := uc.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, err
	}

	return uc.settlementRepo.ListByEntry(ctx, entryID)
}

// UpdateEntryInput is a partial update; nil fields are left unchanged.
type UpdateEntryInput struct {
	Description *string
	Amount      *decimal.Decimal
	DueDate     *time.Time
	Category    *string
}

// UpdateEntry patches an entry under a row lock so it serializes against
// concurrent settlements.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id string, input UpdateEntryInput) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		entry.Description = strings.TrimSpace(*input.Description)
	}

	if input.Category != nil {
		if err := domain.ValidateCategory(*input.Category, uc.categories); err != nil {
			return nil, err
		}
		entry.Category = strings.TrimSpace(*input.Category)
	}

	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return nil, domain.ErrInvalidDueDate
		}
		entry.DueDate = *input.DueDate
	}

	if input.Amount != nil {
		if err := domain.ValidateEntryAmount(*input.Amount); err != nil {
			return nil, err
		}

		// A changed amount must keep the settlement history valid: same
		// polarity as accumulated settlements, magnitude covering them.
		if !entry.SettledAmount.IsZero() {
			if input.Amount.Sign() != entry.SettledAmount.Sign() {
				return nil, domain.ErrInvalidPolarity
			}
			if input.Amount.Abs().LessThan(entry.SettledAmount.Abs()) {
				return nil, domain.ErrOverSettlement
			}
		}

		entry.Amount = *input.Amount
	}

	entry.UpdatedAt = time.Now().UTC()

	if err := uc.entryRepo.Update(txCtx, tx, entry); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryUpdated,
		Payload: map[string]any{
			"entry_id": entry.ID,
			"amount":   entry.Amount.String(),
			"status":   string(entry.Status()),
		},
		CreatedAt: entry.UpdatedAt,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.EntriesUpdated.Inc()
	}

	return entry, nil
}

// DeleteEntry deletes an entry. Entries with settlement history are only
// deleted when cascade is set; the cascade removes the event log and is
// logged as a destructive operation.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string, cascade bool) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	count, err := uc.settlementRepo.CountByEntry(txCtx, tx, id)
	if err != nil {
		return err
	}

	var removed int64
	if count > 0 {
		if !cascade {
			return domain.ErrSettlementConflict
		}

		removed, err = uc.settlementRepo.DeleteByEntry(txCtx, tx, id)
		if err != nil {
			return err
		}

		log.Warn().
			Str("entry_id", id).
			Int64("events_removed", removed).
			Msg("cascade delete removed settlement history")
	}

	if err := uc.entryRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   id,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryDeleted,
		Payload: map[string]any{
			"entry_id":       id,
			"description":    entry.Description,
			"events_removed": removed,
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		cascadeLabel := "false"
		if cascade {
			cascadeLabel = "true"
		}
		uc.metrics.EntriesDeleted.WithLabelValues(cascadeLabel).Inc()
	}

	return nil
}

// CloneEntry creates a new pending entry copying the user-provided fields of
// an existing one. Settlement state is never copied.
func (uc *EntryUseCase) CloneEntry(ctx context.Context, id string) (*domain.Entry, error) {
	source, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	clone, err := uc.CreateEntry(ctx, CreateEntryInput{
		Description: source.Description,
		Amount:      source.Amount,
		DueDate:     source.DueDate,
		Category:    source.Category,
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCloned.Inc()
	}

	return clone, nil
}

func (uc *EntryUseCase) invalidateSummary(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, SummaryCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}
