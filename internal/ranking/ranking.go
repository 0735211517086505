package ranking

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gardenal/internal/ledger"
)

// Tally accumulates results per player id. Matches that are not finished or carry no valid
// winner are skipped.
func Tally(matches []*ledger.Match) map[string]*Entry {
	entries := make(map[string]*Entry)
	get := func(id string) *Entry {
		e, ok := entries[id]
		if !ok {
			e = &Entry{PlayerID: id}
			entries[id] = e
		}
		return e
	}

	for _, m := range matches {
		if !m.Finished {
			continue
		}
		if !m.WinnerTeam.Valid() {
			log.Warn("Skipping finished match without a valid winner", "matchID", m.ID, "winnerTeam", m.WinnerTeam)
			continue
		}
		winner, loser := m.WinnerTeam, m.WinnerTeam.Opponent()
		winTotal, loseTotal := m.Total(winner), m.Total(loser)
		perfect := winTotal >= ledger.Threshold && loseTotal == 0

		for _, id := range m.Roster(winner) {
			e := get(id)
			e.Wins++
			if perfect {
				e.LisasFor++
			}
		}
		for _, id := range m.Roster(loser) {
			e := get(id)
			e.Losses++
			if perfect {
				e.LisasAgainst++
			}
		}
	}

	for _, e := range entries {
		e.TotalGames = e.Wins + e.Losses
		e.computeScore()
	}
	return entries
}

// Sort orders entries by score, wins and lisas for, all descending, then by name.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.LisasFor != b.LisasFor {
			return a.LisasFor > b.LisasFor
		}
		return strings.ToLower(a.PlayerName) < strings.ToLower(b.PlayerName)
	})
}
