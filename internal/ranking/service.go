package ranking

import (
	"context"
	"fmt"
)

// Service derives player statistics and the league ranking from finished matches.
// Nothing is persisted; every call rescans.
type Service struct {
	matches MatchSource
	players PlayerSource
}

func New(matches MatchSource, players PlayerSource) *Service {
	return &Service{matches: matches, players: players}
}

// PlayerStats returns the entry for a single player. Unknown players yield the player
// directory's not-found error.
func (s *Service) PlayerStats(ctx context.Context, playerID string) (*Entry, error) {
	p, err := s.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	matches, err := s.matches.FinishedMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished matches: %w", err)
	}
	entry := Entry{PlayerID: p.ID}
	if e, ok := Tally(matches)[p.ID]; ok {
		entry = *e
	}
	entry.PlayerName = p.DisplayName()
	return &entry, nil
}

// Ranking returns an entry for every known player, best first.
func (s *Service) Ranking(ctx context.Context) ([]Entry, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	matches, err := s.matches.FinishedMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished matches: %w", err)
	}

	tally := Tally(matches)
	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		entry := Entry{PlayerID: p.ID}
		if e, ok := tally[p.ID]; ok {
			entry = *e
		}
		entry.PlayerName = p.DisplayName()
		entries = append(entries, entry)
	}
	Sort(entries)
	return entries, nil
}
