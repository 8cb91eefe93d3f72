package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entry metrics
	EntriesCreated prometheus.Counter
	EntriesUpdated prometheus.Counter
	EntriesDeleted *prometheus.CounterVec
	EntriesCloned  prometheus.Counter

	// Settlement metrics
	SettlementsApplied   prometheus.Counter
	SettlementsReversed  prometheus.Counter
	SettlementsRejected  *prometheus.CounterVec
	SettlementDuration   prometheus.Histogram
	SettlementAmount     prometheus.Histogram
	OutstandingTotal     prometheus.Gauge
	ProjectionDriftFound prometheus.Counter

	// Summary metrics
	SummariesComputed prometheus.Counter
	SummaryCacheHits  prometheus.Counter

	// Access gate metrics
	GateDecisions *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_entries_created_total",
			Help: "Total number of entries created",
		}),
		EntriesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_entries_updated_total",
			Help: "Total number of entries updated",
		}),
		EntriesDeleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_entries_deleted_total",
				Help: "Total number of entries deleted, by cascade",
			},
			[]string{"cascade"},
		),
		EntriesCloned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_entries_cloned_total",
			Help: "Total number of entries cloned",
		}),

		SettlementsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_settlements_applied_total",
			Help: "Total number of settlement events applied",
		}),
		SettlementsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_settlements_reversed_total",
			Help: "Total number of settlement reversals",
		}),
		SettlementsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_settlements_rejected_total",
				Help: "Total number of rejected settlements by reason",
			},
			[]string{"reason"},
		),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "financeiro_settlement_duration_seconds",
			Help:    "Duration of settlement operations",
			Buckets: prometheus.DefBuckets,
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "financeiro_settlement_amount_abs",
			Help:    "Absolute settlement amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 100000},
		}),
		OutstandingTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "financeiro_outstanding_total",
			Help: "Net outstanding amount from the last unfiltered summary (approximate)",
		}),
		ProjectionDriftFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_projection_drift_total",
			Help: "Total number of entries found with settled_amount drift",
		}),

		SummariesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_summaries_computed_total",
			Help: "Total number of summaries computed from storage",
		}),
		SummaryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "financeiro_summary_cache_hits_total",
			Help: "Total number of summaries served from cache",
		}),

		GateDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "financeiro_gate_decisions_total",
				Help: "Access gate decisions by outcome",
			},
			[]string{"outcome"},
		),
	}
}
