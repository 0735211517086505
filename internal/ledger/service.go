package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/gardenal/internal/metrics"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/sethvargo/go-retry"
)

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	// MaxRetries bounds how often a transient store error is retried.
	MaxRetries uint64
	// RetryBase is the first backoff interval.
	RetryBase time.Duration
	Now       func() time.Time
}

// Service owns the lifecycle of matches: creation, rounds, undo, finish and cancellation.
type Service struct {
	store    Store
	players  PlayerDirectory
	observer Observer
	metrics  metrics.Metrics

	maxRetries uint64
	retryBase  time.Duration
	now        func() time.Time

	// createMu serialises the active-player check with the insert that follows it.
	createMu sync.Mutex
}

// New creates a ledger Service. observer may be nil.
func New(store Store, players PlayerDirectory, observer Observer, metrics metrics.Metrics, opts Options) *Service {
	if observer == nil {
		observer = nopObserver{}
	}
	s := &Service{
		store:      store,
		players:    players,
		observer:   observer,
		metrics:    metrics,
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBase,
		now:        opts.Now,
	}
	if s.maxRetries == 0 {
		s.maxRetries = 3
	}
	if s.retryBase == 0 {
		s.retryBase = 20 * time.Millisecond
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// CreateMatch validates both rosters and persists a new match with zero totals.
func (s *Service) CreateMatch(ctx context.Context, createdBy string, teamA, teamB []string) (*Match, error) {
	defer s.observe("create_match", time.Now())

	if len(teamA) != 2 || len(teamB) != 2 {
		return nil, validationError("teamA and teamB must each have exactly 2 players")
	}
	all := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	var duplicates []string
	for _, id := range append(append([]string{}, teamA...), teamB...) {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, validationError("player ids must not be empty")
		}
		if seen[id] {
			duplicates = append(duplicates, id)
		}
		seen[id] = true
		all = append(all, id)
	}
	if len(duplicates) > 0 {
		return nil, validationError("players must be 4 distinct users, duplicated: %s", strings.Join(duplicates, ", "))
	}

	var unknown []string
	for _, id := range all {
		ok, err := s.players.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, validationError("all players must exist, unknown: %s", strings.Join(unknown, ", "))
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	active, err := s.activePlayers(ctx)
	if err != nil {
		return nil, err
	}
	var busy []string
	for _, id := range all {
		if active[id] {
			busy = append(busy, s.displayName(ctx, id))
		}
	}
	if len(busy) > 0 {
		return nil, validationError("the following players are already in an active match: %s", strings.Join(busy, ", "))
	}

	now := s.now()
	m := &Match{
		ID:        uuid.New().String(),
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
		TeamA:     [2]string{all[0], all[1]},
		TeamB:     [2]string{all[2], all[3]},
		Rounds:    []Round{},
		Lisa:      []string{},
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	log.Info("Created match", "matchID", m.ID, "teamA", m.TeamA, "teamB", m.TeamB, "createdBy", createdBy)
	s.observer.MatchCreated(ctx, m)
	return m, nil
}

func (s *Service) activePlayers(ctx context.Context) (map[string]bool, error) {
	matches, err := s.store.ListUnfinished(ctx)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool)
	for _, m := range matches {
		for _, id := range m.Players() {
			active[id] = true
		}
	}
	return active, nil
}

func (s *Service) displayName(ctx context.Context, id string) string {
	p, err := s.players.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, player.ErrNotFound) {
			log.Error("Failed to look up player name", "error", err, "playerID", id)
		}
		return id
	}
	return p.DisplayName()
}

// GetMatch returns the match with the given id.
func (s *Service) GetMatch(ctx context.Context, id string) (*Match, error) {
	return s.store.Get(ctx, id)
}

// ListMatches returns matches newest first. The limit defaults to DefaultListLimit and is
// capped at MaxListLimit.
func (s *Service) ListMatches(ctx context.Context, opts ListOptions) ([]*Match, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	return s.store.List(ctx, opts)
}

// FinishedMatches returns every finished match.
func (s *Service) FinishedMatches(ctx context.Context) ([]*Match, error) {
	return s.store.ListFinished(ctx)
}

// AddRound appends a round and finishes the match when a team reaches the threshold.
func (s *Service) AddRound(ctx context.Context, matchID string, pointsA, pointsB int, recordedBy string) (*Match, error) {
	defer s.observe("add_round", time.Now())

	var finishedNow bool
	m, err := s.update(ctx, "add_round", matchID, func(m *Match) error {
		var err error
		finishedNow, err = appendRound(m, pointsA, pointsB, recordedBy, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	r := m.Rounds[len(m.Rounds)-1]
	log.Info("Round recorded", "matchID", m.ID, "round", r.Number, "pointsA", pointsA, "pointsB", pointsB, "totalA", m.TotalA, "totalB", m.TotalB)
	s.observer.RoundRecorded(ctx, m, r)
	if finishedNow {
		log.Info("Match finished", "matchID", m.ID, "winner", m.WinnerTeam, "lisa", m.HasLisa())
		s.observer.MatchFinished(ctx, m)
	}
	return m, nil
}

// UndoLastRound removes the most recent round and recomputes the totals. A finished match
// stays finished.
func (s *Service) UndoLastRound(ctx context.Context, matchID string) (*Match, error) {
	defer s.observe("undo_round", time.Now())

	var removed Round
	m, err := s.update(ctx, "undo_round", matchID, func(m *Match) error {
		var err error
		removed, err = undoLastRound(m, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("Round undone", "matchID", m.ID, "round", removed.Number, "totalA", m.TotalA, "totalB", m.TotalB)
	s.observer.RoundRemoved(ctx, m, removed)
	return m, nil
}

// DeleteRound removes an arbitrary round from an unfinished match.
func (s *Service) DeleteRound(ctx context.Context, matchID string, number int) (*Match, error) {
	defer s.observe("delete_round", time.Now())

	var removed Round
	m, err := s.update(ctx, "delete_round", matchID, func(m *Match) error {
		var err error
		removed, err = deleteRound(m, number, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info("Round deleted", "matchID", m.ID, "round", number, "totalA", m.TotalA, "totalB", m.TotalB)
	s.observer.RoundRemoved(ctx, m, removed)
	return m, nil
}

// FinishMatch settles a match whose totals already reached the threshold.
func (s *Service) FinishMatch(ctx context.Context, matchID string) (*Match, error) {
	defer s.observe("finish_match", time.Now())

	m, err := s.update(ctx, "finish_match", matchID, func(m *Match) error {
		return finishExplicit(m, s.now())
	})
	if err != nil {
		return nil, err
	}
	log.Info("Match finished", "matchID", m.ID, "winner", m.WinnerTeam, "lisa", m.HasLisa())
	s.observer.MatchFinished(ctx, m)
	return m, nil
}

// CancelMatch deletes a match record entirely.
func (s *Service) CancelMatch(ctx context.Context, matchID string) error {
	defer s.observe("cancel_match", time.Now())

	if err := s.store.Delete(ctx, matchID); err != nil {
		return err
	}
	log.Info("Match cancelled", "matchID", matchID)
	s.observer.MatchCancelled(ctx, matchID)
	return nil
}

// update runs fn through Store.Update, retrying transient failures with exponential backoff.
func (s *Service) update(ctx context.Context, op, matchID string, fn func(m *Match) error) (*Match, error) {
	var updated *Match
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		m, err := s.store.Update(ctx, matchID, fn)
		if err != nil {
			if IsTransient(err) {
				s.metrics.IncStoreRetries()
				log.Warn("Transient store error, retrying", "op", op, "matchID", matchID, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		if IsTransient(err) || errors.Is(err, context.DeadlineExceeded) {
			log.Error("Giving up on match update", "op", op, "matchID", matchID, "error", err)
			return nil, transientError(err)
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) observe(op string, start time.Time) {
	s.metrics.ObserveOperationDuration(op, time.Since(start).Seconds())
}
