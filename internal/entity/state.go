package entity

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""

	SystemSource = "system"
)

// State is one game's full shared state. It is always handed to
// observers as a clone, never as a live pointer into the aggregate.
type State struct {
	Turn    string        `json:"player_turn"`
	Winner  string        `json:"winner"`
	Players []*Player     `json:"players"`
	Board   [9]string     `json:"board"`
	Chat    []ChatMessage `json:"chat"`
}

func NewState() *State {
	return &State{
		Turn:    PlayerX,
		Players: make([]*Player, 0, 2),
	}
}

// Clone - deep-copies the state so a snapshot can cross goroutines.
func (that *State) Clone() *State {
	cloned := &State{
		Turn:   that.Turn,
		Winner: that.Winner,
		Board:  that.Board,
	}

	cloned.Players = make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		copied := *player
		cloned.Players = append(cloned.Players, &copied)
	}

	cloned.Chat = make([]ChatMessage, len(that.Chat))
	copy(cloned.Chat, that.Chat)

	return cloned
}

// PlayerByTeam - finds the player holding the given mark, if any.
func (that *State) PlayerByTeam(team string) *Player {
	for _, player := range that.Players {
		if player.Team == team {
			return player
		}
	}
	return nil
}

func (that *State) IsFull() bool {
	return len(that.Players) >= 2
}

func (that *State) IsFinished() bool {
	return that.Winner != EmptyCell
}

// AppendChat - appends a chat entry with the next dense id.
func (that *State) AppendChat(source, text string) {
	that.Chat = append(that.Chat, ChatMessage{
		ID:     len(that.Chat),
		Source: source,
		Text:   text,
	})
}
