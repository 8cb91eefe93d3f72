package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vfarias/financeiro/internal/domain"
)

// ConsistencyRepository implements usecase.ConsistencyRepository.
type ConsistencyRepository struct {
	pool *pgxpool.Pool
}

// NewConsistencyRepository creates a new ConsistencyRepository.
func NewConsistencyRepository(pool *pgxpool.Pool) *ConsistencyRepository {
	return &ConsistencyRepository{pool: pool}
}

// FindDrift returns every entry whose cached settled_amount disagrees with
// the sum of its settlement events.
func (r *ConsistencyRepository) FindDrift(ctx context.Context) ([]*domain.Drift, error) {
	query := `
		SELECT e.id, e.settled_amount, COALESCE(s.event_sum, 0) AS event_sum
		FROM entries e
		LEFT JOIN (
			SELECT entry_id, SUM(amount) AS event_sum
			FROM settlement_events
			GROUP BY entry_id
		) s ON s.entry_id = e.id
		WHERE e.settled_amount <> COALESCE(s.event_sum, 0)
		ORDER BY e.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drift []*domain.Drift
	for rows.Next() {
		var (
			d        domain.Drift
			settled  pgtype.Numeric
			eventSum pgtype.Numeric
		)
		if err := rows.Scan(&d.EntryID, &settled, &eventSum); err != nil {
			return nil, err
		}
		d.SettledAmount = numericToDecimal(settled)
		d.EventSum = numericToDecimal(eventSum)
		drift = append(drift, &d)
	}

	return drift, rows.Err()
}
