package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vfarias/financeiro/internal/domain"
	"github.com/vfarias/financeiro/internal/infrastructure/metrics"
)

// SummaryUseCase computes consolidated totals over a filtered entry set.
// It reads the cached settled_amount projection only; settlement history is
// never loaded per entry.
type SummaryUseCase struct {
	entryRepo EntryRepository
	cache     Cache
	cacheTTL  time.Duration
	metrics   *metrics.Metrics
}

// NewSummaryUseCase creates a new SummaryUseCase.
func NewSummaryUseCase(entryRepo EntryRepository, cache Cache, cacheTTL time.Duration, metrics *metrics.Metrics) *SummaryUseCase {
	return &SummaryUseCase{
		entryRepo: entryRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
	}
}

// Summarize computes the summary in a single pass over the filtered entries.
// The unfiltered, unpaginated summary is served from cache when available;
// every mutating operation invalidates it.
func (uc *SummaryUseCase) Summarize(ctx context.Context, filter EntryFilter) (*domain.Summary, error) {
	cacheable := uc.cache != nil && filter.IsUnfiltered()

	if cacheable {
		if cached, err := uc.cache.Get(ctx, SummaryCacheKey); err == nil && cached != nil {
			summary := domain.NewSummary()
			if err := json.Unmarshal(cached, summary); err == nil {
				if uc.metrics != nil {
					uc.metrics.SummaryCacheHits.Inc()
				}
				return summary, nil
			}
		}
	}

	// Totals cover the whole filtered set; pagination does not apply to
	// summaries.
	filter.Limit = maxSummaryScan
	filter.Offset = 0

	entries, err := uc.entryRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := domain.NewSummary()
	for _, e := range entries {
		summary.Add(e)
	}

	if uc.metrics != nil {
		uc.metrics.SummariesComputed.Inc()
		if filter.IsUnfiltered() {
			outstanding, _ := summary.TotalOutstanding.Float64()
			uc.metrics.OutstandingTotal.Set(outstanding)
		}
	}

	if cacheable {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := uc.cache.Set(ctx, SummaryCacheKey, payload, uc.cacheTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache summary")
			}
		}
	}

	return summary, nil
}
