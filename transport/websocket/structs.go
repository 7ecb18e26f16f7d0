package websocket

import (
	"encoding/json"

	"github.com/pocketarcade/tictactoe-live/internal/entity"
)

// inbound actions (FromBrowser).
const (
	actionChat    = "chat"
	actionMove    = "move"
	actionRematch = "rematch"
)

// outbound actions (ToBrowser).
const (
	actionJoined = "game:joined"
	actionState  = "game:state"
	actionError  = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

type MovePayload struct {
	Space *int `json:"space"`
}

// JoinedPayload is sent exactly once per session, before any state
// payload, immediately after a successful join.
type JoinedPayload struct {
	Token string        `json:"token"`
	Team  string        `json:"team"`
	State *entity.State `json:"state"`
}

type StatePayload struct {
	State *entity.State `json:"state"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
