package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Realtime pipeline metrics
	EventsDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kicklive_events_decoded_total",
			Help: "Decoded realtime events by category",
		},
		[]string{"category"},
	)

	MalformedEnvelopes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kicklive_malformed_envelopes_total",
			Help: "Inbound messages dropped as unparsable envelopes",
		},
	)

	HandlerPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kicklive_handler_panics_total",
			Help: "Subscriber handler panics caught during dispatch",
		},
		[]string{"category"},
	)

	// Connection metrics
	Reconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kicklive_reconnects_total",
			Help: "Realtime connection re-establishments",
		},
	)

	HeartbeatMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kicklive_heartbeat_misses_total",
			Help: "Missed heartbeat replies on the realtime connection",
		},
	)

	// Transport metrics
	TransportRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kicklive_transport_requests_total",
			Help: "Outbound API requests by outcome",
		},
		[]string{"outcome"}, // "ok", "auth_rejected", "unavailable", "error"
	)

	FingerprintFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kicklive_fingerprint_fallbacks_total",
			Help: "Requests retried on a backup TLS fingerprint",
		},
	)
)
