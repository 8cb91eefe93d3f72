package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

// SettlementRepository implements usecase.SettlementRepository over the
// append-only settlement_events log.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// Create appends a settlement event within a transaction.
func (r *SettlementRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.SettlementEvent) error {
	query := `
		INSERT INTO settlement_events (id, entry_id, amount, applied_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		event.ID,
		event.EntryID,
		decimalToNumeric(event.Amount),
		timeToPgTimestamptz(event.AppliedAt),
		timeToPgTimestamptz(event.CreatedAt),
	)

	return err
}

// ListByEntry retrieves an entry's settlement log in application order.
func (r *SettlementRepository) ListByEntry(ctx context.Context, entryID string) ([]*domain.SettlementEvent, error) {
	query := `
		SELECT id, entry_id, amount, applied_at, created_at
		FROM settlement_events
		WHERE entry_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.SettlementEvent
	for rows.Next() {
		event, err := scanSettlementEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// GetLastByEntry retrieves the most recently appended event for an entry.
func (r *SettlementRepository) GetLastByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (*domain.SettlementEvent, error) {
	query := `
		SELECT id, entry_id, amount, applied_at, created_at
		FROM settlement_events
		WHERE entry_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	event, err := scanSettlementEvent(tx.(*Tx).PgxTx().QueryRow(ctx, query, entryID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNothingToReverse
	}

	return event, err
}

// CountByEntry counts an entry's settlement events.
func (r *SettlementRepository) CountByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error) {
	var count int64
	err := tx.(*Tx).PgxTx().
		QueryRow(ctx, `SELECT COUNT(*) FROM settlement_events WHERE entry_id = $1`, entryID).
		Scan(&count)

	return count, err
}

// SumByEntry sums an entry's settlement events. The result is the
// authoritative settled amount; entries.settled_amount is a cache of it.
func (r *SettlementRepository) SumByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	err := tx.(*Tx).PgxTx().
		QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM settlement_events WHERE entry_id = $1`, entryID).
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// DeleteByEntry removes an entry's whole settlement log. Only the cascade
// delete path uses this.
func (r *SettlementRepository) DeleteByEntry(ctx context.Context, tx usecase.Transaction, entryID string) (int64, error) {
	ct, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM settlement_events WHERE entry_id = $1`, entryID)
	if err != nil {
		return 0, err
	}

	return ct.RowsAffected(), nil
}

func scanSettlementEvent(row pgx.Row) (*domain.SettlementEvent, error) {
	var (
		event     domain.SettlementEvent
		amount    pgtype.Numeric
		appliedAt pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&event.ID, &event.EntryID, &amount, &appliedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	event.Amount = numericToDecimal(amount)
	event.AppliedAt = appliedAt.Time
	event.CreatedAt = createdAt.Time

	return &event, nil
}
