package entity

import "time"

// GameResult records the outcome of one finished round. Outcomes are
// statistics only; they are not game state and are never read back
// into a running game.
type GameResult struct {
	GameID     string    `json:"game_id"`
	WinnerName string    `json:"winner_name,omitempty"`
	WinnerTeam string    `json:"winner_team,omitempty"`
	Draw       bool      `json:"draw"`
	FinishedAt time.Time `json:"finished_at"`
}

// LeaderboardEntry is one row of the aggregated win tally.
type LeaderboardEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
