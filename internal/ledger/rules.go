package ledger

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
)

// Settle decides the outcome of a match from its current totals. ok is false while
// neither team has reached Threshold. The team that reaches the threshold wins; when both
// have, the strictly higher total wins and an exact tie goes to team B.
// The winners are credited a lisa when the losing team finished on exactly zero.
func Settle(m *Match) (winner Team, lisa []string, ok bool) {
	a, b := m.TotalA, m.TotalB
	switch {
	case a >= Threshold && b >= Threshold:
		if a == b {
			log.Warn("Both teams reached the threshold with equal totals, awarding team B", "matchID", m.ID, "total", a)
		}
		if a > b {
			winner = TeamA
		} else {
			winner = TeamB
		}
	case a >= Threshold:
		winner = TeamA
	case b >= Threshold:
		winner = TeamB
	default:
		return "", nil, false
	}

	lisa = []string{}
	if m.Total(winner.Opponent()) == 0 {
		roster := m.Roster(winner)
		lisa = append(lisa, roster[0], roster[1])
	}
	return winner, lisa, true
}

// finish marks m finished if a team has reached the threshold. It reports whether the
// transition happened.
func finish(m *Match, now time.Time) bool {
	if m.Finished {
		return false
	}
	winner, lisa, ok := Settle(m)
	if !ok {
		return false
	}
	m.Finished = true
	m.WinnerTeam = winner
	m.Lisa = lisa
	m.FinishedAt = &now
	return true
}

// appendRound records a round and settles the match when it crosses the threshold.
func appendRound(m *Match, pointsA, pointsB int, recordedBy string, now time.Time) (finished bool, err error) {
	if m.Finished {
		return false, ErrAlreadyFinished
	}
	if pointsA < 0 || pointsB < 0 {
		return false, validationError("points must be non-negative integers")
	}
	if pointsA > math.MaxInt-m.TotalA || pointsB > math.MaxInt-m.TotalB {
		return false, validationError("points are too large")
	}
	m.Rounds = append(m.Rounds, Round{
		Number:     len(m.Rounds) + 1,
		PointsA:    pointsA,
		PointsB:    pointsB,
		RecordedAt: now,
		RecordedBy: recordedBy,
	})
	m.TotalA += pointsA
	m.TotalB += pointsB
	m.UpdatedAt = now
	return finish(m, now), nil
}

// undoLastRound removes the most recent round. Finish fields are left as they were.
func undoLastRound(m *Match, now time.Time) (Round, error) {
	if len(m.Rounds) == 0 {
		return Round{}, ErrNoRounds
	}
	removed := m.Rounds[len(m.Rounds)-1]
	m.Rounds = m.Rounds[:len(m.Rounds)-1]
	recount(m)
	m.UpdatedAt = now
	if m.Finished && m.TotalA < Threshold && m.TotalB < Threshold {
		log.Warn("Undo left a finished match below the threshold", "matchID", m.ID, "winner", m.WinnerTeam, "totalA", m.TotalA, "totalB", m.TotalB)
	}
	return removed, nil
}

// deleteRound removes the round at the 1-based position number from an unfinished match.
func deleteRound(m *Match, number int, now time.Time) (Round, error) {
	if m.Finished {
		return Round{}, ErrMatchFinished
	}
	if number < 1 || number > len(m.Rounds) {
		return Round{}, ErrRoundNotFound
	}
	removed := m.Rounds[number-1]
	m.Rounds = append(m.Rounds[:number-1], m.Rounds[number:]...)
	recount(m)
	m.UpdatedAt = now
	return removed, nil
}

// finishExplicit settles a match without recording a round.
func finishExplicit(m *Match, now time.Time) error {
	if m.Finished {
		return ErrAlreadyFinished
	}
	if !finish(m, now) {
		return ErrThresholdNotReached
	}
	m.UpdatedAt = now
	return nil
}

// recount renumbers rounds contiguously from 1 and recomputes totals by summation.
func recount(m *Match) {
	m.TotalA, m.TotalB = 0, 0
	for i := range m.Rounds {
		m.Rounds[i].Number = i + 1
		m.TotalA += m.Rounds[i].PointsA
		m.TotalB += m.Rounds[i].PointsB
	}
}
