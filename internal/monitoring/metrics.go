// Package monitoring exposes Prometheus metrics for the raffle ledger.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RafflesCreated counts raffles configured on the ledger.
	RafflesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raffles_created_total",
			Help: "Total raffles created",
		},
	)

	// RafflesClosed counts raffles destroyed after full settlement.
	RafflesClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raffles_closed_total",
			Help: "Total raffles closed",
		},
	)

	// TicketsSold counts tickets across all raffles.
	TicketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raffle_tickets_sold_total",
			Help: "Total tickets sold across all raffles",
		},
	)

	// RewardsAllocated counts reward tickets handed out by the authority.
	RewardsAllocated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raffle_rewards_allocated_total",
			Help: "Total reward tickets allocated",
		},
	)

	rafflesByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "raffles_by_state",
			Help: "Raffles currently in each lifecycle state",
		},
		[]string{"state"},
	)

	// TicketsOutstanding tracks tickets sold on raffles that still exist.
	TicketsOutstanding = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raffle_tickets_outstanding",
			Help: "Tickets sold on raffles not yet closed",
		},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// SetRafflesByState replaces the per-state raffle gauge with a fresh
// snapshot. States absent from the map are reset to zero.
func SetRafflesByState(counts map[string]float64) {
	rafflesByState.Reset()
	for state, n := range counts {
		rafflesByState.WithLabelValues(state).Set(n)
	}
}

// TrackHTTPRequest records one served request.
func TrackHTTPRequest(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}
