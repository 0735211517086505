package ranking

// Entry is one player's line in the ranking.
type Entry struct {
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	LisasFor     int    `json:"lisasFor"`
	LisasAgainst int    `json:"lisasAgainst"`
	TotalGames   int    `json:"totalGames"`
	Score        int    `json:"score"`
}

func (e *Entry) computeScore() {
	e.Score = e.Wins + 2*e.LisasFor - e.Losses - 2*e.LisasAgainst
}
