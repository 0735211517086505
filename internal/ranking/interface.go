package ranking

import (
	"context"

	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/player"
)

// MatchSource provides the finished matches the ranking is derived from.
type MatchSource interface {
	FinishedMatches(ctx context.Context) ([]*ledger.Match, error)
}

// PlayerSource lists and resolves players.
type PlayerSource interface {
	Get(ctx context.Context, id string) (*player.Player, error)
	List(ctx context.Context) ([]player.Player, error)
}
