package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Reconciliation metrics
	EntriesPaid      prometheus.Counter
	PartialPayments  prometheus.Counter
	PaymentsReversed prometheus.Counter
	PaymentAmount    prometheus.Histogram

	// Sale metrics
	SalesCreated    prometheus.Counter
	QuotesConverted prometheus.Counter
	EntriesReplaced prometheus.Counter

	// Subscription metrics
	PeriodsPaid     prometheus.Counter
	PeriodsSkipped  prometheus.Counter
	PeriodsReverted prometheus.Counter

	// Backup metrics
	BackupsExported prometheus.Counter
	BackupsImported prometheus.Counter

	// Database metrics
	DBErrors *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntriesPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_entries_paid_total",
			Help: "Total number of entries settled in full",
		}),
		PartialPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_partial_payments_total",
			Help: "Total number of partial payments applied",
		}),
		PaymentsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_payments_reversed_total",
			Help: "Total number of payment reversals",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "contas_payment_amount",
			Help:    "Payment amounts",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 100000},
		}),
		SalesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_sales_created_total",
			Help: "Total number of sales created",
		}),
		QuotesConverted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_quotes_converted_total",
			Help: "Total number of quotes converted into sales",
		}),
		EntriesReplaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_entries_replaced_total",
			Help: "Total number of entries regenerated by sale edits",
		}),
		PeriodsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_subscription_periods_paid_total",
			Help: "Total number of subscription periods paid",
		}),
		PeriodsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_subscription_periods_skipped_total",
			Help: "Total number of subscription periods skipped",
		}),
		PeriodsReverted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_subscription_periods_reverted_total",
			Help: "Total number of subscription period reversals",
		}),
		BackupsExported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_backups_exported_total",
			Help: "Total number of backup exports",
		}),
		BackupsImported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contas_backups_imported_total",
			Help: "Total number of backup imports",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contas_db_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation"},
		),
	}
}
