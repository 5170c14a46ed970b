package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		paymentsTotal,
		ordersCreatedTotal,
		membershipRepairsTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Persisted payments by status (paid/failed).",
		},
		[]string{"status"},
	)

	ordersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_orders_created_total",
			Help: "Provider orders created for checkout attempts.",
		},
	)

	membershipRepairsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "membership_repairs_total",
			Help: "Memberships upgraded by the reconciler after a missed post-payment upgrade.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func IncOrderCreated() {
	ordersCreatedTotal.Inc()
}

func IncMembershipRepair() {
	membershipRepairsTotal.Inc()
}
