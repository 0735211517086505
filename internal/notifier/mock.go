package notifier

import (
	"sync"

	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/mauv0809/gardenal/internal/ranking"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendMatchResultFunc func(match *ledger.Match, players map[string]player.Player, dryRun bool) (string, error)
	SendRankingFunc     func(entries []ranking.Entry, dryRun bool) error

	// Call records
	SendMatchResultCalls []struct {
		Match   *ledger.Match
		Players map[string]player.Player
		DryRun  bool
	}
	SendRankingCalls       [][]ranking.Entry
	FormatRankingCalls     [][]ranking.Entry
	FormatPlayerStatsCalls []*ranking.Entry
	FormatNotFoundCalls    []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendRankingCalls = nil
	m.FormatRankingCalls = nil
	m.FormatPlayerStatsCalls = nil
	m.FormatNotFoundCalls = nil
}

func (m *Mock) SendMatchResult(match *ledger.Match, players map[string]player.Player, dryRun bool) (string, error) {
	m.mu.Lock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Match   *ledger.Match
		Players map[string]player.Player
		DryRun  bool
	}{match, players, dryRun})
	fn := m.SendMatchResultFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(match, players, dryRun)
	}
	return "mock-ts", nil
}

func (m *Mock) SendRanking(entries []ranking.Entry, dryRun bool) error {
	m.mu.Lock()
	m.SendRankingCalls = append(m.SendRankingCalls, entries)
	fn := m.SendRankingFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(entries, dryRun)
	}
	return nil
}

func (m *Mock) FormatRankingResponse(entries []ranking.Entry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatRankingCalls = append(m.FormatRankingCalls, entries)
	return map[string]any{"response_type": "in_channel", "entries": len(entries)}, nil
}

func (m *Mock) FormatPlayerStatsResponse(entry *ranking.Entry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatPlayerStatsCalls = append(m.FormatPlayerStatsCalls, entry)
	return map[string]any{"response_type": "in_channel", "player": entry.PlayerName}, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatNotFoundCalls = append(m.FormatNotFoundCalls, query)
	return map[string]any{"response_type": "ephemeral", "query": query}, nil
}
