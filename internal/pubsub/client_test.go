package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeMatchFinished(t *testing.T) {
	event := MatchFinishedEvent{
		MatchID:    "m1",
		WinnerTeam: "A",
		Winners:    []string{"p1", "p2"},
		Losers:     []string{"p3", "p4"},
		TotalA:     100,
		Lisa:       true,
		Rounds:     3,
		FinishedAt: 1714560000000,
	}
	data, err := Encode(event)
	require.NoError(t, err)

	var got MatchFinishedEvent
	require.NoError(t, Decode(data, &got))
	assert.Equal(t, event, got)
}

func TestDecode_Garbage(t *testing.T) {
	var got MatchFinishedEvent
	assert.Error(t, Decode([]byte{0xc1}, &got))
}

func TestNew_WithoutProjectLogsOnly(t *testing.T) {
	c, err := New(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, c.SendMessage(context.Background(), EventMatchFinished, MatchFinishedEvent{MatchID: "m1"}))
	assert.NoError(t, c.Close())
}
