package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineMetrics groups every collector the escrow engine exposes.
type EngineMetrics struct {
	OrdersCreatedTotal   *prometheus.CounterVec
	OrdersCompletedTotal *prometheus.CounterVec
	OrdersCanceledTotal  *prometheus.CounterVec

	DisputesOpenedTotal   *prometheus.CounterVec
	DisputesResolvedTotal *prometheus.CounterVec

	CommissionAmountTotal *prometheus.CounterVec

	SettlementsAppliedTotal *prometheus.CounterVec
	SettlementFailuresTotal *prometheus.CounterVec
	SettlementRetriesTotal  prometheus.Counter

	SweepClaimsTotal *prometheus.CounterVec

	StateConflictsTotal *prometheus.CounterVec

	OrderProcessingDuration *prometheus.HistogramVec
}

func NewEngineMetrics() *EngineMetrics {
	return NewEngineMetricsWith(prometheus.DefaultRegisterer)
}

// NewEngineMetricsWith registers the collectors on reg. Tests pass a fresh
// registry so each construction stands alone.
func NewEngineMetricsWith(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_orders_created_total",
				Help: "Orders created, by asset and ad side",
			},
			[]string{"asset", "side"},
		),
		OrdersCompletedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_orders_completed_total",
				Help: "Orders completed, by completion reason",
			},
			[]string{"reason"},
		),
		OrdersCanceledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_orders_canceled_total",
				Help: "Orders canceled, by cancellation reason",
			},
			[]string{"reason"},
		),
		DisputesOpenedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_opened_total",
				Help: "Disputes opened, by the order status they froze",
			},
			[]string{"order_status"},
		),
		DisputesResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_resolved_total",
				Help: "Disputes resolved, by outcome",
			},
			[]string{"outcome"},
		),
		CommissionAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_commission_amount_total",
				Help: "Commission collected in quote minimal units, by recipient type",
			},
			[]string{"recipient_type"},
		),
		SettlementsAppliedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_settlements_applied_total",
				Help: "Settlement intents applied, by outcome",
			},
			[]string{"outcome"},
		),
		SettlementFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_settlement_failures_total",
				Help: "Settlement apply attempts that failed, by outcome",
			},
			[]string{"outcome"},
		),
		SettlementRetriesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_settlement_retries_total",
				Help: "Settlement retry attempts by the background worker",
			},
		),
		SweepClaimsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_sweep_claims_total",
				Help: "Auto-release sweep claim attempts, by result",
			},
			[]string{"result"},
		),
		StateConflictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_state_conflicts_total",
				Help: "Transitions rejected because the status already changed, by operation",
			},
			[]string{"operation"},
		),
		OrderProcessingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "escrow_order_processing_duration_seconds",
				Help:    "Duration of order mutations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}
