package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersPlaced counts successfully placed orders by payment method.
	OrdersPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bikezone",
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed through checkout.",
	}, []string{"payment_method"})

	// PaymentRecordFailures counts best-effort payment record writes that failed.
	PaymentRecordFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bikezone",
		Name:      "payment_record_failures_total",
		Help:      "Total number of payment record writes that failed after a successful order.",
	})

	// ActiveCheckoutSessions tracks live checkout sessions.
	ActiveCheckoutSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bikezone",
		Name:      "checkout_sessions_active",
		Help:      "Number of open checkout sessions.",
	})
)

func init() {
	prometheus.MustRegister(OrdersPlaced, PaymentRecordFailures, ActiveCheckoutSessions)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
