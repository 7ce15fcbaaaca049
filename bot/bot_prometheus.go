package bot

import "github.com/prometheus/client_golang/prometheus"

var (
	botSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codeforces_submit_bot",
			Subsystem: "bot",
			Name:      "submissions_total",
			Help:      "Submissions handled by bots, by terminal result.",
		},
		[]string{"result"},
	)
	botReloginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "codeforces_submit_bot",
			Subsystem: "bot",
			Name:      "relogins_total",
			Help:      "Forced relogins triggered by expired or invalid sessions.",
		},
		[]string{"handle"},
	)
	botPollDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "codeforces_submit_bot",
			Subsystem: "bot",
			Name:      "poll_duration_seconds",
			Help:      "Verdict polling pass duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	botLiveAccounts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "codeforces_submit_bot",
			Subsystem: "manager",
			Name:      "live_accounts",
			Help:      "Accounts currently backed by a running bot task.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		botSubmissionsTotal,
		botReloginsTotal,
		botPollDurationSeconds,
		botLiveAccounts,
	)
}
