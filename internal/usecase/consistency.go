package usecase

import (
	"context"

	"github.com/vfarias/financeiro/internal/domain"
)

// ConsistencyRepository compares the cached settled_amount projection against
// the settlement event log, ledger-wide.
type ConsistencyRepository interface {
	FindDrift(ctx context.Context) ([]*domain.Drift, error)
}
