// Package game owns one game's authoritative state. A Game is the unit
// of mutual exclusion: every mutating method serializes on one lock,
// and nothing blocking ever runs under it.
package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pocketarcade/tictactoe-live/internal/apperror"
	"github.com/pocketarcade/tictactoe-live/internal/broadcast"
	"github.com/pocketarcade/tictactoe-live/internal/entity"
	"github.com/pocketarcade/tictactoe-live/internal/tictactoe"
)

type Game struct {
	id string

	mu      sync.Mutex
	state   *entity.State
	changes *broadcast.Watch
}

func New(id string) *Game {
	state := entity.NewState()

	return &Game{
		id:      id,
		state:   state,
		changes: broadcast.NewWatch(state.Clone()),
	}
}

func (that *Game) ID() string {
	return that.id
}

// Join - seats a player on the first free team: the first joiner gets
// X, the second O. Returns the player together with the post-join
// snapshot so the caller can send a join payload before anyone else is
// notified; Join itself never broadcasts.
func (that *Game) Join(name string) (*entity.Player, *entity.State, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.IsFull() {
		return nil, nil, apperror.ErrGameFull
	}

	// take the first free team, not the count-th one: after a mid-game
	// departure the free seat may be X even though one player is seated
	team := entity.PlayerX
	if that.state.PlayerByTeam(entity.PlayerX) != nil {
		team = entity.PlayerO
	}

	player := &entity.Player{
		Team: team,
		Name: name,
	}

	that.state.Players = append(that.state.Players, player)
	that.state.AppendChat(entity.SystemSource, fmt.Sprintf("%s (%s) has joined the game", name, team))

	copied := *player

	return &copied, that.state.Clone(), nil
}

// Leave - frees the seat held by the given team, announcing it in
// chat first. Reports whether the game is now empty so the caller can
// evict it from the registry. No-op when the team holds no seat.
func (that *Game) Leave(team string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	player := that.state.PlayerByTeam(team)
	if player == nil {
		return len(that.state.Players) == 0
	}

	that.state.AppendChat(entity.SystemSource, fmt.Sprintf("%s has left the game", player.Name))

	remaining := make([]*entity.Player, 0, 1)
	for _, p := range that.state.Players {
		if p.Team != team {
			remaining = append(remaining, p)
		}
	}
	that.state.Players = remaining

	return len(that.state.Players) == 0
}

// Handle - single entry point for player commands. Returns whether
// state changed; every rejection is recoverable and local to the
// issuing player.
func (that *Game) Handle(team string, cmd Command) (bool, error) {
	switch cmd := cmd.(type) {
	case ChatCommand:
		if err := that.Chat(team, cmd.Text); err != nil {
			return false, err
		}
		return true, nil
	case MoveCommand:
		if err := that.TakeTurn(team, cmd.Cell); err != nil {
			return false, err
		}
		return true, nil
	case RematchCommand:
		that.Rematch(team)
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %T", cmd)
	}
}

// TakeTurn - validates and applies a move. A successful move appends a
// chat line describing it; a terminal move additionally announces the
// result and credits the winner.
func (that *Game) TakeTurn(team string, cell int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := tictactoe.ValidateMove(that.state, team, cell); err != nil {
		return err
	}

	tictactoe.ApplyMove(that.state, team, cell)

	col, row := tictactoe.CellCoords(cell)
	that.state.AppendChat(team, fmt.Sprintf("Played %s at (%d, %d).", team, col, row))

	switch that.state.Winner {
	case entity.EmptyCell:
	case entity.PlayerTie:
		that.state.AppendChat(entity.SystemSource, "It's a draw!")
	default:
		winner := that.state.PlayerByTeam(that.state.Winner)
		winner.Wins++
		that.state.AppendChat(entity.SystemSource, fmt.Sprintf("%s (%s) wins!", winner.Name, winner.Team))
	}

	return nil
}

// Chat - appends a player chat message. Text must be non-empty after
// trimming, but is stored verbatim.
func (that *Game) Chat(team, text string) error {
	if strings.TrimSpace(text) == "" {
		return apperror.ErrEmptyMessage
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.state.AppendChat(team, text)

	return nil
}

// Rematch - clears the board and winner and hands the first turn back
// to X. Win counts, chat history and team assignments all survive.
func (that *Game) Rematch(team string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.state.AppendChat(team, "Rematch!")
	that.state.Board = [9]string{}
	that.state.Turn = entity.PlayerX
	that.state.Winner = entity.EmptyCell
}

// Broadcast - publishes a clone of the current state to every
// subscriber. The aggregate never broadcasts implicitly; the session
// decides when observers see a transition. The game lock is held
// across clone and publish so snapshots reach the watch in commit
// order; Publish never blocks, so this cannot stall the game.
func (that *Game) Broadcast() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.changes.Publish(that.state.Clone())
}

// Subscribe - attaches an observer to this game's state changes.
func (that *Game) Subscribe() *broadcast.Subscriber {
	return that.changes.Subscribe()
}

// Snapshot - a clone of the current state.
func (that *Game) Snapshot() *entity.State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Clone()
}
