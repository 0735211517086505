package processor

import (
	"context"

	"github.com/mauv0809/gardenal/internal/notifier"
	"github.com/mauv0809/gardenal/internal/player"
)

// Players resolves roster ids for notifications.
type Players interface {
	GetMany(ctx context.Context, ids []string) ([]player.Player, error)
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
