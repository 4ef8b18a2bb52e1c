package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gatherly"

// Registry is the Prometheus registry all server metrics register against.
var Registry = prometheus.NewRegistry()

// AppInfo exposes build information as labels (the gauge is always 1).
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// EventsPublished counts admin publish decisions.
var EventsPublished = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of events published by moderation",
	},
)

// RequestsDecided counts participation request outcomes by final status.
var RequestsDecided = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "participation_requests_decided_total",
		Help:      "Total number of participation requests that reached a final status",
	},
	[]string{"status"},
)

// HitsRecorded counts endpoint hits forwarded to the stats collector.
var HitsRecorded = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_hits_recorded_total",
		Help:      "Total number of endpoint hits recorded",
	},
)
