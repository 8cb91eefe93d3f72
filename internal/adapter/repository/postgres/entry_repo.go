package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/usecase"
)

const entryColumns = "id, description, category, due_date, amount, settled_amount, created_at, updated_at"

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts a new entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		INSERT INTO entries (id, description, category, due_date, amount, settled_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		entry.ID,
		entry.Description,
		entry.Category,
		timeToPgDate(entry.DueDate),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.SettledAmount),
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an entry under a row lock. Settlements against
// the same entry serialize on this lock.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 FOR UPDATE`

	return scanEntry(tx.(*Tx).PgxTx().QueryRow(ctx, query, id))
}

// List retrieves entries matching the filter, ordered by due date then id.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DueFrom != nil {
		conds = append(conds, "due_date >= "+arg(timeToPgDate(*filter.DueFrom)))
	}
	if filter.DueTo != nil {
		conds = append(conds, "due_date <= "+arg(timeToPgDate(*filter.DueTo)))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.Search != "" {
		conds = append(conds, "description ILIKE "+arg("%"+filter.Search+"%"))
	}

	// Status is derived from amount and settled_amount, never stored.
	switch filter.Status {
	case domain.StatusPending:
		conds = append(conds, "settled_amount = 0")
	case domain.StatusPartiallySettled:
		conds = append(conds, "settled_amount <> 0 AND abs(settled_amount) < abs(amount)")
	case domain.StatusSettled:
		conds = append(conds, "abs(settled_amount) >= abs(amount)")
	}

	query := `SELECT ` + entryColumns + ` FROM entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY due_date, id"
	query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Update rewrites an entry's user-provided fields.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	query := `
		UPDATE entries
		SET description = $2, category = $3, due_date = $4, amount = $5, updated_at = $6
		WHERE id = $1
	`

	ct, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		entry.ID,
		entry.Description,
		entry.Category,
		timeToPgDate(entry.DueDate),
		decimalToNumeric(entry.Amount),
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateSettledAmount rewrites the settled_amount projection.
func (r *EntryRepository) UpdateSettledAmount(ctx context.Context, tx usecase.Transaction, id string, settled decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE entries SET settled_amount = $2, updated_at = $3 WHERE id = $1`

	ct, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, decimalToNumeric(settled), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	ct, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry     domain.Entry
		dueDate   pgtype.Date
		amount    pgtype.Numeric
		settled   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.Description,
		&entry.Category,
		&dueDate,
		&amount,
		&settled,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	entry.DueDate = dueDate.Time
	entry.Amount = numericToDecimal(amount)
	entry.SettledAmount = numericToDecimal(settled)
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}
