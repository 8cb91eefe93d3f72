package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
	"github.com/vfarias/financeiro/internal/usecase/mocks"
)

func TestReconciliationUseCase_CheckProjection(t *testing.T) {
	t.Run("consistent ledger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		consistencyRepo := mocks.NewMockConsistencyRepository(ctrl)
		consistencyRepo.EXPECT().FindDrift(gomock.Any()).Return(nil, nil)

		uc := usecase.NewReconciliationUseCase(
			mocks.NewMockTransactionManager(),
			mocks.NewMockEntryRepository(),
			mocks.NewMockSettlementRepository(),
			consistencyRepo,
			nil,
		)

		report, err := uc.CheckProjection(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Empty(t, report.Drift)
		assert.False(t, report.CheckedAt.IsZero())
	})

	t.Run("drift reported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		consistencyRepo := mocks.NewMockConsistencyRepository(ctrl)
		consistencyRepo.EXPECT().FindDrift(gomock.Any()).Return([]*domain.Drift{
			{EntryID: "e-1", SettledAmount: dec("600.00"), EventSum: dec("400.00")},
		}, nil)

		uc := usecase.NewReconciliationUseCase(
			mocks.NewMockTransactionManager(),
			mocks.NewMockEntryRepository(),
			mocks.NewMockSettlementRepository(),
			consistencyRepo,
			nil,
		)

		report, err := uc.CheckProjection(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Consistent)
		require.Len(t, report.Drift, 1)
		assert.True(t, report.Drift[0].Difference().Equal(dec("200.00")))
	})

	t.Run("repository error propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		consistencyRepo := mocks.NewMockConsistencyRepository(ctrl)
		repoErr := errors.New("connection reset")
		consistencyRepo.EXPECT().FindDrift(gomock.Any()).Return(nil, repoErr)

		uc := usecase.NewReconciliationUseCase(
			mocks.NewMockTransactionManager(),
			mocks.NewMockEntryRepository(),
			mocks.NewMockSettlementRepository(),
			consistencyRepo,
			nil,
		)

		_, err := uc.CheckProjection(context.Background())
		require.ErrorIs(t, err, repoErr)
	})
}

func TestReconciliationUseCase_RebuildEntry(t *testing.T) {
	dueDate := time.Date(2026, 9, 25, 0, 0, 0, 0, time.UTC)

	newFixture := func(t *testing.T) (*mocks.MockEntryRepository, *mocks.MockSettlementRepository, *usecase.ReconciliationUseCase) {
		ctrl := gomock.NewController(t)
		entryRepo := mocks.NewMockEntryRepository()
		settlementRepo := mocks.NewMockSettlementRepository()

		uc := usecase.NewReconciliationUseCase(
			mocks.NewMockTransactionManager(),
			entryRepo,
			settlementRepo,
			mocks.NewMockConsistencyRepository(ctrl),
			nil,
		)
		return entryRepo, settlementRepo, uc
	}

	t.Run("drifted projection is rewritten from the log", func(t *testing.T) {
		entryRepo, settlementRepo, uc := newFixture(t)

		entryRepo.Seed(&domain.Entry{
			ID: "e-1", Description: "d", Category: "Geral", DueDate: dueDate,
			Amount: dec("1000.00"), SettledAmount: dec("999.99"),
		})
		require.NoError(t, settlementRepo.Create(context.Background(), nil, &domain.SettlementEvent{
			ID: "s-1", EntryID: "e-1", Amount: dec("600.00"),
		}))
		require.NoError(t, settlementRepo.Create(context.Background(), nil, &domain.SettlementEvent{
			ID: "s-2", EntryID: "e-1", Amount: dec("-100.00"),
		}))

		entry, err := uc.RebuildEntry(context.Background(), "e-1")
		require.NoError(t, err)
		assert.True(t, entry.SettledAmount.Equal(dec("500.00")))

		stored, err := entryRepo.GetByID(context.Background(), "e-1")
		require.NoError(t, err)
		assert.True(t, stored.SettledAmount.Equal(dec("500.00")))
		assert.Equal(t, domain.StatusPartiallySettled, stored.Status())
	})

	t.Run("consistent projection is left alone", func(t *testing.T) {
		entryRepo, settlementRepo, uc := newFixture(t)

		entryRepo.Seed(&domain.Entry{
			ID: "e-1", Description: "d", Category: "Geral", DueDate: dueDate,
			Amount: dec("1000.00"), SettledAmount: dec("600.00"),
		})
		require.NoError(t, settlementRepo.Create(context.Background(), nil, &domain.SettlementEvent{
			ID: "s-1", EntryID: "e-1", Amount: dec("600.00"),
		}))

		updateCalls := 0
		entryRepo.UpdateSettledAmountFunc = func(ctx context.Context, tx usecase.Transaction, id string, settled decimal.Decimal, updatedAt time.Time) error {
			updateCalls++
			return nil
		}

		entry, err := uc.RebuildEntry(context.Background(), "e-1")
		require.NoError(t, err)
		assert.True(t, entry.SettledAmount.Equal(dec("600.00")))
		assert.Zero(t, updateCalls)
	})

	t.Run("no-drift read succeeds even when rollback fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		entryRepo := mocks.NewMockEntryRepository()
		settlementRepo := mocks.NewMockSettlementRepository()

		txManager := mocks.NewMockTransactionManager()
		txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
			return &mocks.MockTransaction{RollbackErr: errors.New("connection closed")}, nil
		}

		uc := usecase.NewReconciliationUseCase(
			txManager,
			entryRepo,
			settlementRepo,
			mocks.NewMockConsistencyRepository(ctrl),
			nil,
		)

		entryRepo.Seed(&domain.Entry{
			ID: "e-1", Description: "d", Category: "Geral", DueDate: dueDate,
			Amount: dec("1000.00"), SettledAmount: dec("600.00"),
		})
		require.NoError(t, settlementRepo.Create(context.Background(), nil, &domain.SettlementEvent{
			ID: "s-1", EntryID: "e-1", Amount: dec("600.00"),
		}))

		entry, err := uc.RebuildEntry(context.Background(), "e-1")
		require.NoError(t, err)
		assert.True(t, entry.SettledAmount.Equal(dec("600.00")))
	})

	t.Run("empty log rebuilds to zero", func(t *testing.T) {
		entryRepo, _, uc := newFixture(t)

		entryRepo.Seed(&domain.Entry{
			ID: "e-1", Description: "d", Category: "Geral", DueDate: dueDate,
			Amount: dec("1000.00"), SettledAmount: dec("300.00"),
		})

		entry, err := uc.RebuildEntry(context.Background(), "e-1")
		require.NoError(t, err)
		assert.True(t, entry.SettledAmount.IsZero())
		assert.Equal(t, domain.StatusPending, entry.Status())
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, _, uc := newFixture(t)

		_, err := uc.RebuildEntry(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrEntryNotFound)
	})
}

func TestReconciliationUseCase_RunStopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	consistencyRepo := mocks.NewMockConsistencyRepository(ctrl)
	consistencyRepo.EXPECT().FindDrift(gomock.Any()).Return(nil, nil).AnyTimes()

	uc := usecase.NewReconciliationUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockEntryRepository(),
		mocks.NewMockSettlementRepository(),
		consistencyRepo,
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- uc.Run(ctx, time.Millisecond)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
