package web

import "github.com/prometheus/client_golang/prometheus"

var (
	submitCodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codeforces_submit_bot",
			Subsystem: "submission",
			Name:      "submit_code_requests_total",
			Help:      "SubmitCode requests total.",
		},
		[]string{"code", "reason", "language"},
	)
	submitCodeDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "codeforces_submit_bot",
			Subsystem: "submission",
			Name:      "submit_code_duration_seconds",
			Help:      "SubmitCode duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"code", "reason", "language"},
	)
)

func init() {
	prometheus.MustRegister(
		submitCodeRequestsTotal,
		submitCodeDurationSeconds,
	)
}
