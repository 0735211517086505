package notifier

import (
	"context"

	"github.com/mauv0809/gardenal/internal/ledger"
	"github.com/mauv0809/gardenal/internal/player"
	"github.com/mauv0809/gardenal/internal/ranking"
)

// Notifier defines a high-level interface for sending notifications about league events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For finished matches. players resolves the roster ids to names.
	SendMatchResult(match *ledger.Match, players map[string]player.Player, dryRun bool) (string, error)
	// For the admin announcement
	SendRanking(entries []ranking.Entry, dryRun bool) error

	// For formatting responses for slash commands
	FormatRankingResponse(entries []ranking.Entry) (any, error)
	FormatPlayerStatsResponse(entry *ranking.Entry) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}

type dryRunKey struct{}

// WithDryRun marks ctx so that notifications are logged instead of sent.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey{}, dryRun)
}

// DryRunFromContext reports whether ctx was marked with WithDryRun.
func DryRunFromContext(ctx context.Context) bool {
	dryRun, ok := ctx.Value(dryRunKey{}).(bool)
	return ok && dryRun
}
