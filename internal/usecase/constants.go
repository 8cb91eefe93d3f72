package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single settle/update transaction.
	DefaultTransactionTimeout = 30 * time.Second

	// SummaryCacheKey is the cache key for the unfiltered ledger summary.
	SummaryCacheKey = "summary:all"

	// maxSummaryScan bounds a summary pass over the filtered entry set.
	maxSummaryScan = 1_000_000
)
