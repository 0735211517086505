package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	MatchesCreated     prometheus.Counter
	MatchesFinished    *prometheus.CounterVec
	MatchesCancelled   prometheus.Counter
	RoundsRecorded     prometheus.Counter
	RoundsUndone       prometheus.Counter
	StoreRetries       prometheus.Counter
	OperationDuration  *prometheus.HistogramVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	EventsPublished    prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
