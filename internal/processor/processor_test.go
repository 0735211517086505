package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/metrics"
	"github.com/mauv0809/gardenal/internal/notifier"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/mauv0809/gardenal/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedMatch() *ledger.Match {
	at := time.UnixMilli(1714560000000).UTC()
	return &ledger.Match{
		ID:         "m1",
		TeamA:      [2]string{"p1", "p2"},
		TeamB:      [2]string{"p3", "p4"},
		TotalA:     100,
		TotalB:     0,
		Rounds:     []ledger.Round{{Number: 1, PointsA: 100}},
		Finished:   true,
		WinnerTeam: ledger.TeamA,
		Lisa:       []string{"p1", "p2"},
		FinishedAt: &at,
	}
}

func TestProcessor_MatchFinished(t *testing.T) {
	t.Run("sends result and publishes event", func(t *testing.T) {
		// Setup
		players := player.NewMock(player.Player{ID: "p1", Name: "Ana"}, player.Player{ID: "p3", Name: "Carla"})
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		ps := pubsub.NewMock()
		p := New(players, notif, metr, ps)

		// Execute
		p.MatchFinished(context.Background(), finishedMatch())

		// Assert
		require.Len(t, notif.SendMatchResultCalls, 1, "A result notification should be sent")
		call := notif.SendMatchResultCalls[0]
		assert.Equal(t, "m1", call.Match.ID)
		assert.False(t, call.DryRun)
		assert.Equal(t, "Ana", call.Players["p1"].Name)
		assert.Equal(t, "Carla", call.Players["p3"].Name)

		calls := ps.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, pubsub.EventMatchFinished, calls[0].Topic)
		event, ok := calls[0].Data.(pubsub.MatchFinishedEvent)
		require.True(t, ok)
		assert.Equal(t, []string{"p1", "p2"}, event.Winners)
		assert.Equal(t, []string{"p3", "p4"}, event.Losers)
		assert.True(t, event.Lisa)
		assert.Equal(t, int64(1714560000000), event.FinishedAt)

		finished, lisas := metr.MatchesFinished()
		assert.Equal(t, 1, finished)
		assert.Equal(t, 1, lisas)
		assert.Equal(t, 1, metr.EventsPublished())
	})

	t.Run("dry run skips publishing", func(t *testing.T) {
		notif := notifier.NewMock()
		ps := pubsub.NewMock()
		p := New(player.NewMock(), notif, metrics.NewMock(), ps)

		p.MatchFinished(notifier.WithDryRun(context.Background(), true), finishedMatch())

		require.Len(t, notif.SendMatchResultCalls, 1)
		assert.True(t, notif.SendMatchResultCalls[0].DryRun)
		assert.Empty(t, ps.Calls(), "No event should be published in dry run")
	})

	t.Run("side effect failures are swallowed", func(t *testing.T) {
		notif := notifier.NewMock()
		notif.SendMatchResultFunc = func(*ledger.Match, map[string]player.Player, bool) (string, error) {
			return "", errors.New("slack down")
		}
		players := player.NewMock()
		players.GetManyFunc = func(context.Context, []string) ([]player.Player, error) {
			return nil, errors.New("db down")
		}
		ps := pubsub.NewMock()
		ps.SendMessageFunc = func(pubsub.EventType, any) error { return errors.New("pubsub down") }
		metr := metrics.NewMock()
		p := New(players, notif, metr, ps)

		assert.NotPanics(t, func() { p.MatchFinished(context.Background(), finishedMatch()) })
		require.Len(t, notif.SendMatchResultCalls, 1)
		assert.Empty(t, notif.SendMatchResultCalls[0].Players)
		assert.Equal(t, 0, metr.EventsPublished())
	})
}

func TestProcessor_Counters(t *testing.T) {
	metr := metrics.NewMock()
	ps := pubsub.NewMock()
	p := New(player.NewMock(), notifier.NewMock(), metr, ps)
	ctx := context.Background()
	m := finishedMatch()

	p.MatchCreated(ctx, m)
	p.RoundRecorded(ctx, m, m.Rounds[0])
	p.RoundRecorded(ctx, m, m.Rounds[0])
	p.RoundRemoved(ctx, m, m.Rounds[0])
	p.MatchCancelled(ctx, m.ID)

	assert.Equal(t, 1, metr.MatchesCreated())
	assert.Equal(t, 2, metr.RoundsRecorded())
	assert.Equal(t, 1, metr.RoundsUndone())
	assert.Equal(t, 1, metr.MatchesCancelled())

	calls := ps.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, pubsub.EventMatchCancelled, calls[0].Topic)
}
