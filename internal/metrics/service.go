package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_matches_created_total",
			Help: "The total number of matches created.",
		}),
		MatchesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domino_matches_finished_total",
			Help: "The total number of matches finished, labelled by whether a lisa was scored.",
		}, []string{"lisa"}),
		MatchesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_matches_cancelled_total",
			Help: "The total number of matches cancelled by an admin.",
		}),
		RoundsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_rounds_recorded_total",
			Help: "The total number of rounds recorded.",
		}),
		RoundsUndone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_rounds_undone_total",
			Help: "The total number of rounds removed by undo or delete.",
		}),
		StoreRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_store_retries_total",
			Help: "The total number of match updates retried after a transient store error.",
		}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domino_ledger_operation_duration_seconds",
			Help:    "The duration of ledger operations.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domino_events_published_total",
			Help: "The total number of match events published to Pub/Sub.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "domino_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesCreated,
		s.MatchesFinished,
		s.MatchesCancelled,
		s.RoundsRecorded,
		s.RoundsUndone,
		s.StoreRetries,
		s.OperationDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.EventsPublished,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) IncMatchesFinished(lisa bool) {
	s.MatchesFinished.WithLabelValues(strconv.FormatBool(lisa)).Inc()
}

func (s *Service) IncMatchesCancelled() {
	s.MatchesCancelled.Inc()
}

func (s *Service) IncRoundsRecorded() {
	s.RoundsRecorded.Inc()
}

func (s *Service) IncRoundsUndone() {
	s.RoundsUndone.Inc()
}

func (s *Service) IncStoreRetries() {
	s.StoreRetries.Inc()
}

func (s *Service) ObserveOperationDuration(operation string, duration float64) {
	s.OperationDuration.WithLabelValues(operation).Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
