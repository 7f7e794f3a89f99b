package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics carries the counters the core emits. A single instance is shared
// through DI; tests construct their own with a private registry.
type Metrics struct {
	CouponIssued      prometheus.Counter
	CouponRejected    *prometheus.CounterVec
	OrdersCompleted   prometheus.Counter
	OrdersCompensated prometheus.Counter
	OutboxDelivered   prometheus.Counter
	OutboxRetried     prometheus.Counter
	OutboxDeadLetters prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CouponIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "coupon_issued_total",
			Help: "Coupons issued through the FCFS allocator.",
		}),
		CouponRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coupon_rejected_total",
			Help: "Coupon issuance rejections by reason.",
		}, []string{"reason"}),
		OrdersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_completed_total",
			Help: "Orders that reached COMPLETED.",
		}),
		OrdersCompensated: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_compensated_total",
			Help: "Order sagas rolled back by compensation.",
		}),
		OutboxDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_delivered_total",
			Help: "Outbox records delivered to the transport.",
		}),
		OutboxRetried: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_retried_total",
			Help: "Outbox delivery attempts that failed and were retried.",
		}),
		OutboxDeadLetters: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_dead_letters_total",
			Help: "Outbox records that exhausted their retry budget.",
		}),
	}
}

func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
