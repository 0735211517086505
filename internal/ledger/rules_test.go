package ledger

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatch() *Match {
	return &Match{
		ID:     "m1",
		TeamA:  [2]string{"a1", "a2"},
		TeamB:  [2]string{"b1", "b2"},
		Rounds: []Round{},
		Lisa:   []string{},
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name         string
		totalA       int
		totalB       int
		expectOK     bool
		expectWinner Team
		expectLisa   []string
	}{
		{"below threshold", 99, 99, false, "", nil},
		{"team A reaches", 100, 40, true, TeamA, []string{}},
		{"team B reaches", 10, 120, true, TeamB, []string{}},
		{"team A lisa", 100, 0, true, TeamA, []string{"a1", "a2"}},
		{"team B lisa", 0, 105, true, TeamB, []string{"b1", "b2"}},
		{"both reach, higher wins", 110, 105, true, TeamA, []string{}},
		{"both reach, B higher", 101, 130, true, TeamB, []string{}},
		{"exact tie goes to B", 100, 100, true, TeamB, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch()
			m.TotalA, m.TotalB = tt.totalA, tt.totalB
			winner, lisa, ok := Settle(m)
			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.expectWinner, winner)
			assert.Equal(t, tt.expectLisa, lisa)
		})
	}
}

func TestAppendRound(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newTestMatch()

	finished, err := appendRound(m, 30, 10, "a1", now)
	require.NoError(t, err)
	assert.False(t, finished)
	assert.Equal(t, 30, m.TotalA)
	assert.Equal(t, 10, m.TotalB)
	require.Len(t, m.Rounds, 1)
	assert.Equal(t, Round{Number: 1, PointsA: 30, PointsB: 10, RecordedAt: now, RecordedBy: "a1"}, m.Rounds[0])

	finished, err = appendRound(m, 70, 0, "b1", now)
	require.NoError(t, err)
	assert.True(t, finished)
	assert.True(t, m.Finished)
	assert.Equal(t, TeamA, m.WinnerTeam)
	assert.Empty(t, m.Lisa)
	require.NotNil(t, m.FinishedAt)
	assert.Equal(t, now, *m.FinishedAt)

	_, err = appendRound(m, 5, 5, "a1", now)
	assert.ErrorIs(t, err, ErrAlreadyFinished)
	assert.Len(t, m.Rounds, 2, "A finished match must not change")
}

func TestAppendRound_NegativePoints(t *testing.T) {
	m := newTestMatch()
	_, err := appendRound(m, -1, 5, "a1", time.Now())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, m.Rounds)
}

func TestAppendRound_OverflowingPoints(t *testing.T) {
	m := newTestMatch()
	_, err := appendRound(m, 50, 0, "a1", time.Now())
	require.NoError(t, err)

	_, err = appendRound(m, math.MaxInt, 0, "a1", time.Now())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	_, err = appendRound(m, 0, math.MaxInt, "a1", time.Now())
	assert.NoError(t, err, "team B has no points yet, so its total cannot overflow")

	m = newTestMatch()
	m.TotalB = 10
	_, err = appendRound(m, 0, math.MaxInt-9, "a1", time.Now())
	assert.True(t, IsValidation(err))
	assert.Equal(t, 10, m.TotalB)
	assert.Empty(t, m.Rounds)
}

func TestUndoLastRound_KeepsFinishFields(t *testing.T) {
	now := time.Now().UTC()
	m := newTestMatch()
	_, err := appendRound(m, 40, 0, "a1", now)
	require.NoError(t, err)
	_, err = appendRound(m, 60, 0, "a1", now)
	require.NoError(t, err)
	require.True(t, m.Finished)

	removed, err := undoLastRound(m, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed.Number)
	assert.Equal(t, 40, m.TotalA)
	assert.True(t, m.Finished)
	assert.Equal(t, TeamA, m.WinnerTeam)
	assert.Equal(t, []string{"a1", "a2"}, m.Lisa)
}

func TestDeleteRound(t *testing.T) {
	now := time.Now().UTC()
	m := newTestMatch()
	for _, pts := range [][2]int{{10, 5}, {20, 15}, {30, 25}} {
		_, err := appendRound(m, pts[0], pts[1], "a1", now)
		require.NoError(t, err)
	}

	removed, err := deleteRound(m, 2, now)
	require.NoError(t, err)
	assert.Equal(t, 20, removed.PointsA)
	require.Len(t, m.Rounds, 2)
	for i, r := range m.Rounds {
		assert.Equal(t, i+1, r.Number)
	}
	assert.Equal(t, 40, m.TotalA)
	assert.Equal(t, 30, m.TotalB)

	_, err = deleteRound(m, 0, now)
	assert.ErrorIs(t, err, ErrRoundNotFound)
	_, err = deleteRound(m, 3, now)
	assert.ErrorIs(t, err, ErrRoundNotFound)

	m.Finished = true
	_, err = deleteRound(m, 1, now)
	assert.ErrorIs(t, err, ErrMatchFinished)
}

func TestFinishExplicit(t *testing.T) {
	now := time.Now().UTC()
	m := newTestMatch()
	m.TotalB = 99
	assert.ErrorIs(t, finishExplicit(m, now), ErrThresholdNotReached)
	assert.False(t, m.Finished)

	m.TotalB = 100
	require.NoError(t, finishExplicit(m, now))
	assert.True(t, m.Finished)
	assert.Equal(t, TeamB, m.WinnerTeam)
	assert.Equal(t, []string{"b1", "b2"}, m.Lisa)

	assert.ErrorIs(t, finishExplicit(m, now), ErrAlreadyFinished)
}

func TestMatchJSON_UnsetWinnerIsNull(t *testing.T) {
	b, err := json.Marshal(newTestMatch())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	require.Contains(t, fields, "winnerTeam")
	assert.Nil(t, fields["winnerTeam"])
	require.Contains(t, fields, "finishedAt")
	assert.Nil(t, fields["finishedAt"])

	var decoded Match
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, Team(""), decoded.WinnerTeam)

	m := newTestMatch()
	m.WinnerTeam = TeamB
	b, err = json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"winnerTeam":"B"`)
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, TeamB, decoded.WinnerTeam)
}
