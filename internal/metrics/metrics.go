package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reserva_sala",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reserva_sala",
			Name:      "reservation_updated_total",
			Help:      "Count of reservations updated.",
		},
	)

	reservationDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reserva_sala",
			Name:      "reservation_deleted_total",
			Help:      "Count of reservations deleted.",
		},
	)

	reservationExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reserva_sala",
			Name:      "reservation_expired_total",
			Help:      "Count of reservations removed by the expiry sweep.",
		},
	)

	refreshErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reserva_sala",
			Name:      "refresh_errors_total",
			Help:      "Count of failed background snapshot refreshes.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reserva_sala",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by path and status.",
		},
		[]string{"path", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationCreated,
			reservationUpdated,
			reservationDeleted,
			reservationExpired,
			refreshErrors,
			httpRequests,
		)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncReservationUpdated() {
	reservationUpdated.Inc()
}

func IncReservationDeleted() {
	reservationDeleted.Inc()
}

func AddReservationExpired(n float64) {
	reservationExpired.Add(n)
}

func IncRefreshError() {
	refreshErrors.Inc()
}

func IncHTTPRequest(path, status string) {
	httpRequests.WithLabelValues(path, status).Inc()
}
