package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "applyos", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter backend."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "applyos", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter backend."},
		[]string{"limiter"},
	)
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "applyos", Name: "llm_requests_total", Help: "Number of LLM calls by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	CaptureDetections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "applyos", Name: "capture_detections_total", Help: "Number of quick-capture detections by method."},
		[]string{"method"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(LLMRequests)
	reg.MustRegister(CaptureDetections)
}
