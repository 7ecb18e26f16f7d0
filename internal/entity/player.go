package entity

// Player occupies one of the two seats in a game. The team mark is the
// player's identity; there is at most one player per mark.
type Player struct {
	Team string `json:"team"`
	Name string `json:"name"`
	Wins int    `json:"wins"`
}
