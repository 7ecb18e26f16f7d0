package entity

// ChatMessage is one line of a game's chat log. IDs are dense and
// zero-based: chat[i].ID == i always holds. Source is either a team
// mark or SystemSource.
type ChatMessage struct {
	ID     int    `json:"id"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

func (that *ChatMessage) IsSystem() bool {
	return that.Source == SystemSource
}
