package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesCreated()
	IncMatchesFinished(lisa bool)
	IncMatchesCancelled()
	IncRoundsRecorded()
	IncRoundsUndone()
	IncStoreRetries()
	ObserveOperationDuration(operation string, duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	IncEventsPublished()
	SetStartupTime(duration float64)
}
