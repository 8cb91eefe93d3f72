package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/infrastructure/metrics"
)

// ReconciliationUseCase re-derives the settled_amount projection from the
// settlement event log. The projection is a cache of the log; this is the
// explicit routine that validates it instead of trusting it unconditionally.
type ReconciliationUseCase struct {
	txManager       TransactionManager
	entryRepo       EntryRepository
	settlementRepo  SettlementRepository
	consistencyRepo ConsistencyRepository
	metrics         *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	settlementRepo SettlementRepository,
	consistencyRepo ConsistencyRepository,
	metrics *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:       txManager,
		entryRepo:       entryRepo,
		settlementRepo:  settlementRepo,
		consistencyRepo: consistencyRepo,
		metrics:         metrics,
	}
}

// ProjectionReport is the result of a ledger-wide consistency check.
type ProjectionReport struct {
	CheckedAt  time.Time
	Drift      []*domain.Drift
	Consistent bool
}

// CheckProjection compares every entry's cached settled_amount against the
// sum of its settlement events.
func (uc *ReconciliationUseCase) CheckProjection(ctx context.Context) (*ProjectionReport, error) {
	drift, err := uc.consistencyRepo.FindDrift(ctx)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil && len(drift) > 0 {
		uc.metrics.ProjectionDriftFound.Add(float64(len(drift)))
	}

	return &ProjectionReport{
		CheckedAt:  time.Now().UTC(),
		Drift:      drift,
		Consistent: len(drift) == 0,
	}, nil
}

// RebuildEntry recomputes one entry's settled_amount from its event log and
// rewrites the projection when it drifted.
func (uc *ReconciliationUseCase) RebuildEntry(ctx context.Context, entryID string) (*domain.Entry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return nil, err
	}

	sum, err := uc.settlementRepo.SumByEntry(txCtx, tx, entryID)
	if err != nil {
		return nil, err
	}

	// No drift: the deferred rollback releases the lock.
	if entry.SettledAmount.Equal(sum) {
		return entry, nil
	}

	now := time.Now().UTC()

	log.Warn().
		Str("entry_id", entryID).
		Str("cached", entry.SettledAmount.String()).
		Str("rebuilt", sum.String()).
		Msg("settled_amount projection drifted, rebuilding from event log")

	if err := uc.entryRepo.UpdateSettledAmount(txCtx, tx, entryID, sum, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	entry.SettledAmount = sum
	entry.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.ProjectionDriftFound.Inc()
	}

	return entry, nil
}

// Run periodically checks projection consistency until ctx is cancelled.
// Intended as a background goroutine; drift is reported, not auto-repaired.
func (uc *ReconciliationUseCase) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			report, err := uc.CheckProjection(ctx)
			if err != nil {
				log.Error().Err(err).Msg("projection consistency check failed")
				continue
			}

			if !report.Consistent {
				for _, d := range report.Drift {
					log.Error().
						Str("entry_id", d.EntryID).
						Str("cached", d.SettledAmount.String()).
						Str("event_sum", d.EventSum.String()).
						Msg("settled_amount projection drift detected")
				}
			}
		}
	}
}
