package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	matchesCreated     int
	matchesFinished    int
	lisas              int
	matchesCancelled   int
	roundsRecorded     int
	roundsUndone       int
	storeRetries       int
	operationDurations map[string][]float64
	slackNotifSent     int
	slackNotifFailed   int
	eventsPublished    int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		operationDurations: make(map[string][]float64),
	}
}

func (m *Mock) IncMatchesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCreated++
}

func (m *Mock) IncMatchesFinished(lisa bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFinished++
	if lisa {
		m.lisas++
	}
}

func (m *Mock) IncMatchesCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCancelled++
}

func (m *Mock) IncRoundsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsRecorded++
}

func (m *Mock) IncRoundsUndone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsUndone++
}

func (m *Mock) IncStoreRetries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeRetries++
}

func (m *Mock) ObserveOperationDuration(operation string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operationDurations[operation] = append(m.operationDurations[operation], duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesCreated returns the number of times IncMatchesCreated was called.
func (m *Mock) MatchesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCreated
}

// MatchesFinished returns the number of finished matches and how many of them were lisas.
func (m *Mock) MatchesFinished() (finished, lisas int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFinished, m.lisas
}

func (m *Mock) MatchesCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCancelled
}

func (m *Mock) RoundsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsRecorded
}

func (m *Mock) RoundsUndone() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsUndone
}

func (m *Mock) StoreRetries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeRetries
}

// OperationCount returns how many durations were observed for operation.
func (m *Mock) OperationCount(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.operationDurations[operation])
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}
