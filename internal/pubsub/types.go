package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client  *pubsub.Client
	timeout time.Duration
}

// EventType represents the type of event/message sent via pubsub. It doubles as the topic id.
type EventType string

const (
	EventMatchFinished  EventType = "match-finished"
	EventMatchCancelled EventType = "match-cancelled"
)

// MatchFinishedEvent is published once per match when it is settled.
type MatchFinishedEvent struct {
	MatchID    string   `msgpack:"match_id"`
	WinnerTeam string   `msgpack:"winner_team"`
	Winners    []string `msgpack:"winners"`
	Losers     []string `msgpack:"losers"`
	TotalA     int      `msgpack:"total_a"`
	TotalB     int      `msgpack:"total_b"`
	Lisa       bool     `msgpack:"lisa"`
	Rounds     int      `msgpack:"rounds"`
	FinishedAt int64    `msgpack:"finished_at"`
}

// MatchCancelledEvent is published when an admin deletes a match.
type MatchCancelledEvent struct {
	MatchID     string `msgpack:"match_id"`
	CancelledAt int64  `msgpack:"cancelled_at"`
}
