package processor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/metrics"
	"github.com/mauv0809/gardenal/internal/notifier"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/mauv0809/gardenal/internal/pubsub"
)

var _ ledger.Observer = (*Processor)(nil)

// New creates a new Processor.
func New(players Players, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		players:  players,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (p *Processor) MatchCreated(ctx context.Context, m *ledger.Match) {
	p.metrics.IncMatchesCreated()
}

func (p *Processor) RoundRecorded(ctx context.Context, m *ledger.Match, r ledger.Round) {
	p.metrics.IncRoundsRecorded()
}

func (p *Processor) RoundRemoved(ctx context.Context, m *ledger.Match, r ledger.Round) {
	p.metrics.IncRoundsUndone()
}

// MatchFinished posts the result to Slack and publishes a match-finished event. Failures are
// logged only; the match is already settled.
func (p *Processor) MatchFinished(ctx context.Context, m *ledger.Match) {
	p.metrics.IncMatchesFinished(m.HasLisa())
	dryRun := notifier.DryRunFromContext(ctx)

	log.Info("Match finished. Sending result notification.", "matchID", m.ID, "dryRun", dryRun)
	if _, err := p.notifier.SendMatchResult(m, p.roster(ctx, m), dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err, "matchID", m.ID)
	}

	if dryRun {
		return
	}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventMatchFinished, finishedEvent(m)); err != nil {
		log.Error("Failed to publish match finished event", "error", err, "matchID", m.ID)
		return
	}
	p.metrics.IncEventsPublished()
}

func (p *Processor) MatchCancelled(ctx context.Context, matchID string) {
	p.metrics.IncMatchesCancelled()
	if notifier.DryRunFromContext(ctx) {
		return
	}
	event := pubsub.MatchCancelledEvent{MatchID: matchID, CancelledAt: time.Now().UnixMilli()}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventMatchCancelled, event); err != nil {
		log.Error("Failed to publish match cancelled event", "error", err, "matchID", matchID)
		return
	}
	p.metrics.IncEventsPublished()
}

func (p *Processor) roster(ctx context.Context, m *ledger.Match) map[string]player.Player {
	byID := make(map[string]player.Player, 4)
	players, err := p.players.GetMany(ctx, m.Players())
	if err != nil {
		log.Error("Failed to load match players, falling back to ids", "error", err, "matchID", m.ID)
		return byID
	}
	for _, pl := range players {
		byID[pl.ID] = pl
	}
	return byID
}

func finishedEvent(m *ledger.Match) pubsub.MatchFinishedEvent {
	winners := m.Roster(m.WinnerTeam)
	losers := m.Roster(m.WinnerTeam.Opponent())
	event := pubsub.MatchFinishedEvent{
		MatchID:    m.ID,
		WinnerTeam: string(m.WinnerTeam),
		Winners:    winners[:],
		Losers:     losers[:],
		TotalA:     m.TotalA,
		TotalB:     m.TotalB,
		Lisa:       m.HasLisa(),
		Rounds:     len(m.Rounds),
	}
	if m.FinishedAt != nil {
		event.FinishedAt = m.FinishedAt.UnixMilli()
	}
	return event
}
