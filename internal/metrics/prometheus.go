package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "voxdesk"

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "API requests served, by route template, status code and method",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Time spent serving API requests, by route template and method",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var HttpRateLimitRejectionsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tenant_throttled_requests_total",
		Help:      "Requests refused because the sub-account spent its request budget",
	},
)

var ContactImportRowsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_import_rows_total",
		Help:      "CSV rows seen by contact imports, by outcome",
	},
	[]string{"outcome"},
)

var VoiceCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "voice_calls_total",
		Help:      "Outbound calls handed to the voice provider, by outcome",
	},
	[]string{"outcome"},
)

var VoiceCallDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "voice_call_request_duration_seconds",
		Help:      "Round trip to the voice provider when placing a call",
		Buckets:   prometheus.DefBuckets,
	},
)

// Register adds all collectors to reg
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		HttpRateLimitRejectionsTotal,
		ContactImportRowsTotal,
		VoiceCallsTotal,
		VoiceCallDuration,
	)
}
