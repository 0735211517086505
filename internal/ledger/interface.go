package ledger

import (
	"context"

	"github.com/mauv0809/gardenal/internal/player"
)

// Store persists matches. Update is the only way to modify an existing match: it applies fn
// to a fresh copy of the stored match and writes the result atomically, or nothing at all
// if fn returns an error. A lost race is reported as ErrConflict.
type Store interface {
	Create(ctx context.Context, m *Match) error
	Get(ctx context.Context, id string) (*Match, error)
	List(ctx context.Context, opts ListOptions) ([]*Match, error)
	ListUnfinished(ctx context.Context) ([]*Match, error)
	ListFinished(ctx context.Context) ([]*Match, error)
	Update(ctx context.Context, id string, fn func(m *Match) error) (*Match, error)
	Delete(ctx context.Context, id string) error
}

// PlayerDirectory is the read-only view of players the ledger needs.
type PlayerDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*player.Player, error)
}

// Observer is notified after a ledger write has been committed.
type Observer interface {
	MatchCreated(ctx context.Context, m *Match)
	RoundRecorded(ctx context.Context, m *Match, r Round)
	RoundRemoved(ctx context.Context, m *Match, r Round)
	MatchFinished(ctx context.Context, m *Match)
	MatchCancelled(ctx context.Context, matchID string)
}

type nopObserver struct{}

func (nopObserver) MatchCreated(context.Context, *Match)         {}
func (nopObserver) RoundRecorded(context.Context, *Match, Round) {}
func (nopObserver) RoundRemoved(context.Context, *Match, Round)  {}
func (nopObserver) MatchFinished(context.Context, *Match)        {}
func (nopObserver) MatchCancelled(context.Context, string)       {}
