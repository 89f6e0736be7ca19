package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boletera_checkouts_started_total",
			Help: "Checkout sessions begun",
		},
	)

	checkoutsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boletera_checkouts_finished_total",
			Help: "Checkout sessions reaching a terminal state",
		},
		[]string{"state"},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boletera_tickets_issued_total",
			Help: "Tickets issued across all events",
		},
	)

	scans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boletera_scans_total",
			Help: "Ticket scans by outcome",
		},
		[]string{"result", "reason"},
	)

	seatsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boletera_seats",
			Help: "Current seat counts per event and status",
		},
		[]string{"event_id", "status"},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "boletera_expiry_sweep_duration_seconds",
			Help:    "Duration of expired-reservation sweeps",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	sweepReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boletera_expiry_sweep_released_seats_total",
			Help: "Seats released by the expiry sweep",
		},
	)
)

func CheckoutStarted() {
	checkoutsStarted.Inc()
}

func CheckoutFinished(state string) {
	checkoutsFinished.WithLabelValues(state).Inc()
}

func TicketsIssued(n int) {
	ticketsIssued.Add(float64(n))
}

// ScanResult records an admission decision. reason is empty for
// admitted scans.
func ScanResult(admitted bool, reason string) {
	result := "admitted"
	if !admitted {
		result = "denied"
	}
	scans.WithLabelValues(result, reason).Inc()
}

func SetSeatCount(eventID, status string, count float64) {
	seatsByStatus.WithLabelValues(eventID, status).Set(count)
}

func ObserveSweep(d time.Duration, released int64) {
	sweepDuration.Observe(d.Seconds())
	sweepReleased.Add(float64(released))
}
