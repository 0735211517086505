package processor

import (
	"github.com/mauv0809/gardenal/internal/metrics"
	"github.com/mauv0809/gardenal/internal/pubsub"
)

// Processor reacts to committed ledger writes: metrics, Slack results and match events.
type Processor struct {
	players  Players
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}
