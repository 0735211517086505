package ledger

import (
	"database/sql"
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// Threshold is the total that ends a match.
const Threshold = 100

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Team identifies one side of a match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Valid reports whether t is one of the two teams.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// MarshalJSON renders the unset team as null.
func (t Team) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

func (t *Team) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = ""
	if s != nil {
		*t = Team(*s)
	}
	return nil
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Round is one scoring entry of a match.
type Round struct {
	Number     int       `json:"roundNumber"`
	PointsA    int       `json:"pointsA"`
	PointsB    int       `json:"pointsB"`
	RecordedAt time.Time `json:"recordedAt"`
	RecordedBy string    `json:"recordedBy"`
}

// Match is one game between two teams of two players.
type Match struct {
	ID         string     `json:"id"`
	CreatedBy  string     `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	TeamA      [2]string  `json:"teamA"`
	TeamB      [2]string  `json:"teamB"`
	TotalA     int        `json:"totalA"`
	TotalB     int        `json:"totalB"`
	Rounds     []Round    `json:"rounds"`
	Finished   bool       `json:"finished"`
	WinnerTeam Team       `json:"winnerTeam"`
	Lisa       []string   `json:"lisa"`
	FinishedAt *time.Time `json:"finishedAt"`
	// Version is bumped on every write and used for optimistic concurrency.
	Version int64 `json:"-"`
}

// Players returns the four players, team A first.
func (m *Match) Players() []string {
	return []string{m.TeamA[0], m.TeamA[1], m.TeamB[0], m.TeamB[1]}
}

// TeamOf returns the team playerID belongs to.
func (m *Match) TeamOf(playerID string) (Team, bool) {
	switch playerID {
	case m.TeamA[0], m.TeamA[1]:
		return TeamA, true
	case m.TeamB[0], m.TeamB[1]:
		return TeamB, true
	}
	return "", false
}

// Roster returns the players of team t.
func (m *Match) Roster(t Team) [2]string {
	if t == TeamA {
		return m.TeamA
	}
	return m.TeamB
}

// Total returns the running total of team t.
func (m *Match) Total(t Team) int {
	if t == TeamA {
		return m.TotalA
	}
	return m.TotalB
}

// HasLisa reports whether the winners were credited a perfect game.
func (m *Match) HasLisa() bool {
	return len(m.Lisa) > 0
}

// Clone returns a deep copy of m.
func (m *Match) Clone() *Match {
	c := *m
	c.Rounds = slices.Clone(m.Rounds)
	if c.Rounds == nil {
		c.Rounds = []Round{}
	}
	c.Lisa = slices.Clone(m.Lisa)
	if c.Lisa == nil {
		c.Lisa = []string{}
	}
	if m.FinishedAt != nil {
		t := *m.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}

// ListOptions filters ListMatches.
type ListOptions struct {
	Limit    int
	Finished *bool
	PlayerID string
}

// store handles all database operations for matches.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
