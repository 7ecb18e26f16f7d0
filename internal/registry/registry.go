// Package registry maps game identifiers to live game aggregates.
// The registry lock is short-held, covering only map access; it is
// never held while a game lock is held.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/pocketarcade/tictactoe-live/internal/game"
)

// TokenSource hands out identifiers for games created without one.
// Implementations must make collisions with live or recent games
// overwhelmingly unlikely. Release returns a reservation when its game
// is evicted; the reservation TTL is only the crash fallback.
type TokenSource interface {
	Next(ctx context.Context) (string, error)
	Release(ctx context.Context, token string) error
}

type Registry struct {
	tokens TokenSource

	mu    sync.Mutex
	games map[string]*game.Game
}

func New(tokens TokenSource) *Registry {
	return &Registry{
		tokens: tokens,
		games:  make(map[string]*game.Game),
	}
}

// GetOrCreate - resolves an id to its live game, creating one when the
// id is unknown or blank. Lookup and insertion happen under one lock
// acquisition, so concurrent identical requests always converge on a
// single game. Returns whether the game was created by this call.
func (that *Registry) GetOrCreate(ctx context.Context, id string) (*game.Game, bool, error) {
	if id != "" {
		that.mu.Lock()
		if existing, ok := that.games[id]; ok {
			that.mu.Unlock()
			return existing, false, nil
		}
		created := game.New(id)
		that.games[id] = created
		that.mu.Unlock()

		return created, true, nil
	}

	token, err := that.tokens.Next(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate game token: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.games[token]; ok {
		// the token source raced us on an id a client supplied first
		return existing, false, nil
	}

	created := game.New(token)
	that.games[token] = created

	return created, true, nil
}

// Remove - drops the game with the given id and releases its token
// reservation. No-op on absent ids; releasing an id that was supplied
// by a caller and never reserved is harmless.
func (that *Registry) Remove(ctx context.Context, id string) error {
	that.mu.Lock()
	delete(that.games, id)
	that.mu.Unlock()

	if err := that.tokens.Release(ctx, id); err != nil {
		return fmt.Errorf("failed to release game token: %w", err)
	}

	return nil
}

// Len - number of live games, for logging and tests.
func (that *Registry) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.games)
}
