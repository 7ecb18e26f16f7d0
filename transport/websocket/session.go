package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pocketarcade/tictactoe-live/internal/entity"
	"github.com/pocketarcade/tictactoe-live/internal/game"
)

const (
	defaultPlayerName = "Anonymous"
	evictTimeout      = 5 * time.Second
)

var errUnknownAction = errors.New("unknown action")

// serveSession - runs one client's whole lifecycle: resolve game, take
// a seat, emit the join payload, then concurrently relay state
// snapshots out and commands in until the connection drops.
func (that *Server) serveSession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = defaultPlayerName
	}

	log := that.logger.With("component", "session", "session", uuid.NewString())

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	currentGame, _, err := that.registry.GetOrCreate(sessionCtx, token)
	if err != nil {
		log.Error("failed to resolve game", "error", err)
		_ = that.sendMessage(conn, actionError, ErrorPayload{Error: "failed to resolve game"})
		return
	}

	log = log.With("game", currentGame.ID())

	sub := currentGame.Subscribe()
	defer sub.Close()

	player, joined, err := currentGame.Join(name)
	if err != nil {
		// a full game terminates the session without a join payload
		log.Info("join rejected", "name", name, "error", err)
		_ = that.sendMessage(conn, actionError, ErrorPayload{Error: err.Error()})
		return
	}

	log = log.With("team", player.Team)

	// the seat must be released exactly once, whether the session ends
	// by close frame, read error or server shutdown
	var leaveOnce sync.Once
	leave := func() {
		leaveOnce.Do(func() {
			if empty := currentGame.Leave(player.Team); empty {
				// the session context is usually dead by now, so the
				// eviction gets its own deadline
				evictCtx, evictCancel := context.WithTimeout(context.Background(), evictTimeout)
				defer evictCancel()

				if err := that.registry.Remove(evictCtx, currentGame.ID()); err != nil {
					log.Error("failed to evict game", "error", err)
				}
			}
			currentGame.Broadcast()
			log.Info("player left")
		})
	}
	defer leave()

	payload := JoinedPayload{
		Token: currentGame.ID(),
		Team:  player.Team,
		State: joined,
	}
	if err = that.sendMessage(conn, actionJoined, payload); err != nil {
		log.Error("failed to send join payload", "error", err)
		return
	}

	currentGame.Broadcast()

	log.Info("player joined", "name", name)

	rejections := make(chan string, 8)
	go that.writeUpdates(sessionCtx, cancel, conn, sub, rejections)

	that.readCommands(sessionCtx, log, conn, currentGame, player.Team, rejections)
}

// writeUpdates - the single writer for this connection after the join
// payload: it relays every state change the subscriber observes and
// every command rejection the reader queues.
func (that *Server) writeUpdates(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sub subscriber, rejections <-chan string) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-rejections:
			if err := that.sendMessage(conn, actionError, ErrorPayload{Error: reason}); err != nil {
				return
			}
		case <-sub.Ready():
			if err := that.sendMessage(conn, actionState, StatePayload{State: sub.State()}); err != nil {
				return
			}
		}
	}
}

// subscriber is the slice of broadcast.Subscriber the writer needs.
type subscriber interface {
	Ready() <-chan struct{}
	State() *entity.State
}

// readCommands - decodes inbound envelopes and drives them into the
// game. Rejections go back to the issuing client only; the connection
// stays open.
func (that *Server) readCommands(ctx context.Context, log *slog.Logger, conn *websocket.Conn, currentGame *game.Game, team string, rejections chan<- string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			reject(ctx, rejections, "malformed message")
			continue
		}

		cmd, err := decodeCommand(&msg)
		if err != nil {
			reject(ctx, rejections, err.Error())
			continue
		}

		changed, err := currentGame.Handle(team, cmd)
		if err != nil {
			reject(ctx, rejections, err.Error())
			continue
		}

		if changed {
			currentGame.Broadcast()
		}

		if _, ok := cmd.(game.MoveCommand); ok {
			that.recordResult(ctx, log, currentGame)
		}
	}
}

// decodeCommand - maps an inbound envelope onto a game command. Cell
// indexes are validated here so out-of-range values never reach the
// aggregate.
func decodeCommand(msg *Message) (game.Command, error) {
	switch msg.Action {
	case actionChat:
		var payload ChatPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("malformed chat payload")
		}
		return game.ChatCommand{Text: payload.Text}, nil
	case actionMove:
		var payload MovePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("malformed move payload")
		}
		if payload.Space == nil {
			return nil, fmt.Errorf("move requires a space")
		}
		if *payload.Space < 0 || *payload.Space > 8 {
			return nil, fmt.Errorf("space %d out of range", *payload.Space)
		}
		return game.MoveCommand{Cell: *payload.Space}, nil
	case actionRematch:
		return game.RematchCommand{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownAction, msg.Action)
	}
}

// recordResult - saves a finished round to the results store. Purely
// best-effort bookkeeping: failures are logged, never shown to players.
func (that *Server) recordResult(ctx context.Context, log *slog.Logger, currentGame *game.Game) {
	snapshot := currentGame.Snapshot()
	if !snapshot.IsFinished() {
		return
	}

	result := &entity.GameResult{
		GameID:     currentGame.ID(),
		Draw:       snapshot.Winner == entity.PlayerTie,
		FinishedAt: time.Now().UTC(),
	}

	if !result.Draw {
		if winner := snapshot.PlayerByTeam(snapshot.Winner); winner != nil {
			result.WinnerName = winner.Name
			result.WinnerTeam = winner.Team
		}
	}

	if err := that.results.Save(ctx, result); err != nil {
		log.Error("failed to save game result", "error", err)
	}
}

// reject queues a rejection for the writer. The send blocks so every
// rejected command gets its error reply; the writer drains the channel
// continuously and cancels the context when it dies, so this can only
// wait while a reply is genuinely in flight.
func reject(ctx context.Context, rejections chan<- string, reason string) {
	select {
	case rejections <- reason:
	case <-ctx.Done():
	}
}
