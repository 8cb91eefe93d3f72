package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/infrastructure/metrics"
)

// SettlementUseCase applies settlement events to entries. The entry's
// settled_amount is a cached projection of the append-only event log; event
// append and projection update always commit together.
type SettlementUseCase struct {
	txManager      TransactionManager
	entryRepo      EntryRepository
	settlementRepo SettlementRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
	retrier        Retrier
	cache          Cache
	metrics        *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	settlementRepo SettlementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:      txManager,
		entryRepo:      entryRepo,
		settlementRepo: settlementRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
		retrier:        retrier,
		cache:          cache,
		metrics:        metrics,
	}
}

// Settle applies a partial or full settlement to an entry. The entry row is
// locked for the duration of the transaction, so two concurrent settlements
// that would jointly over-settle resolve as one success and one rejection.
func (uc *SettlementUseCase) Settle(ctx context.Context, entryID string, amount decimal.Decimal, appliedAt time.Time) (*domain.Entry, error) {
	if err := domain.ValidateEntryAmount(amount); err != nil {
		return nil, err
	}

	return uc.apply(ctx, entryID, func(entry *domain.Entry) (decimal.Decimal, error) {
		if err := entry.ValidateSettlement(amount); err != nil {
			return decimal.Zero, err
		}

		return amount, nil
	}, appliedAt)
}

// SettleFull settles exactly the remaining outstanding amount.
func (uc *SettlementUseCase) SettleFull(ctx context.Context, entryID string, appliedAt time.Time) (*domain.Entry, error) {
	return uc.apply(ctx, entryID, func(entry *domain.Entry) (decimal.Decimal, error) {
		outstanding := entry.Outstanding()
		if outstanding.IsZero() {
			return decimal.Zero, domain.ErrAlreadySettled
		}

		return outstanding, nil
	}, appliedAt)
}

// ReverseLast appends a compensating event undoing the most recent
// settlement event, restoring the prior settled amount.
func (uc *SettlementUseCase) ReverseLast(ctx context.Context, entryID string) (*domain.Entry, error) {
	start := time.Now()

	var updated *domain.Entry

	operation := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
		if err != nil {
			return err
		}

		last, err := uc.settlementRepo.GetLastByEntry(txCtx, tx, entryID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		compensation := last.Compensation(uc.idGen.Generate(), now)

		// Reversing a compensation re-applies an old event amount; the
		// entry amount may have shrunk since, so the restored projection
		// must be re-validated before anything is appended.
		newSettled := entry.ApplySettlement(compensation.Amount)
		if err := entry.ValidateSettledProjection(newSettled); err != nil {
			return err
		}

		if err := uc.settlementRepo.Create(txCtx, tx, compensation); err != nil {
			return err
		}

		if err := uc.entryRepo.UpdateSettledAmount(txCtx, tx, entryID, newSettled, now); err != nil {
			return err
		}

		entry.SettledAmount = newSettled
		entry.UpdatedAt = now

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   entryID,
			AggregateType: domain.AggregateTypeEntry,
			EventType:     domain.EventTypeSettlementReversed,
			Payload: map[string]any{
				"entry_id":          entryID,
				"reversed_event_id": last.ID,
				"amount":            compensation.Amount.String(),
				"settled_amount":    newSettled.String(),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		updated = entry

		return nil
	}

	if err := uc.retry(ctx, operation); err != nil {
		return nil, err
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.SettlementsReversed.Inc()
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	}

	return updated, nil
}

// apply runs the shared settle transaction: lock entry, derive the event
// amount, append the event, bump the projection, emit the outbox event.
func (uc *SettlementUseCase) apply(ctx context.Context, entryID string, deriveAmount func(*domain.Entry) (decimal.Decimal, error), appliedAt time.Time) (*domain.Entry, error) {
	start := time.Now()

	var (
		updated *domain.Entry
		applied decimal.Decimal
	)

	operation := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
		if err != nil {
			return err
		}

		amount, err := deriveAmount(entry)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		at := appliedAt
		if at.IsZero() {
			at = now
		}

		event := &domain.SettlementEvent{
			ID:        uc.idGen.Generate(),
			EntryID:   entryID,
			Amount:    amount,
			AppliedAt: at,
			CreatedAt: now,
		}

		if err := uc.settlementRepo.Create(txCtx, tx, event); err != nil {
			return err
		}

		newSettled := entry.ApplySettlement(amount)
		if err := uc.entryRepo.UpdateSettledAmount(txCtx, tx, entryID, newSettled, now); err != nil {
			return err
		}

		entry.SettledAmount = newSettled
		entry.UpdatedAt = now

		outboxEvent := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   entryID,
			AggregateType: domain.AggregateTypeEntry,
			EventType:     domain.EventTypeEntrySettled,
			Payload: map[string]any{
				"entry_id":       entryID,
				"event_id":       event.ID,
				"amount":         amount.String(),
				"settled_amount": newSettled.String(),
				"status":         string(entry.Status()),
				"applied_at":     at.Format(time.RFC3339),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		updated = entry
		applied = amount

		return nil
	}

	if err := uc.retry(ctx, operation); err != nil {
		uc.countRejection(err)
		return nil, err
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.SettlementsApplied.Inc()
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
		amountAbs, _ := applied.Abs().Float64()
		uc.metrics.SettlementAmount.Observe(amountAbs)
	}

	return updated, nil
}

func (uc *SettlementUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}

	return uc.retrier.Retry(ctx, operation)
}

func (uc *SettlementUseCase) countRejection(err error) {
	if uc.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrOverSettlement):
		uc.metrics.SettlementsRejected.WithLabelValues("over_settlement").Inc()
	case errors.Is(err, domain.ErrInvalidPolarity):
		uc.metrics.SettlementsRejected.WithLabelValues("invalid_polarity").Inc()
	case errors.Is(err, domain.ErrAlreadySettled):
		uc.metrics.SettlementsRejected.WithLabelValues("already_settled").Inc()
	}
}

func (uc *SettlementUseCase) invalidateSummary(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, SummaryCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}
