package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for placesRequestsTotal.
const (
	outcomeOK           = "ok"
	outcomeUnconfigured = "unconfigured"
	outcomeRejected     = "rejected"
	outcomeTransport    = "transport_error"
)

var placesRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "places_requests_total",
		Help: "Review lookups by outcome",
	},
	[]string{"outcome"},
)
