package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenSource hands out sequential tokens without redis and
// records what gets released.
type stubTokenSource struct {
	mu       sync.Mutex
	next     int
	err      error
	released []string
}

func (that *stubTokenSource) Next(_ context.Context) (string, error) {
	if that.err != nil {
		return "", that.err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.next++
	return fmt.Sprintf("token-%d", that.next), nil
}

func (that *stubTokenSource) Release(_ context.Context, token string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.released = append(that.released, token)
	return nil
}

func (that *stubTokenSource) releasedTokens() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]string(nil), that.released...)
}

func TestRegistry_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("A blank id draws a fresh token", func(t *testing.T) {
		reg := New(&stubTokenSource{})

		g, created, err := reg.GetOrCreate(ctx, "")

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "token-1", g.ID())
	})

	t.Run("A known id resolves to the existing game", func(t *testing.T) {
		reg := New(&stubTokenSource{})

		first, created, err := reg.GetOrCreate(ctx, "abc")
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := reg.GetOrCreate(ctx, "abc")
		require.NoError(t, err)

		assert.False(t, created)
		assert.Same(t, first, second)
	})

	t.Run("An unknown id creates a game under that id", func(t *testing.T) {
		reg := New(&stubTokenSource{})

		g, created, err := reg.GetOrCreate(ctx, "custom-id")

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "custom-id", g.ID())
	})

	t.Run("Token source failures surface to the caller", func(t *testing.T) {
		reg := New(&stubTokenSource{err: fmt.Errorf("redis down")})

		_, _, err := reg.GetOrCreate(ctx, "")

		assert.Error(t, err)
	})

	t.Run("Concurrent requests for one id converge on a single game", func(t *testing.T) {
		reg := New(&stubTokenSource{})

		const workers = 32
		games := make([]any, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				g, _, err := reg.GetOrCreate(ctx, "contested")
				require.NoError(t, err)
				games[i] = g
			}(i)
		}
		wg.Wait()

		for i := 1; i < workers; i++ {
			assert.Same(t, games[0], games[i])
		}
		assert.Equal(t, 1, reg.Len())
	})
}

func TestRegistry_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("A removed id yields a brand-new game on the next request", func(t *testing.T) {
		reg := New(&stubTokenSource{})

		old, _, err := reg.GetOrCreate(ctx, "abc")
		require.NoError(t, err)
		_, _, err = old.Join("Alice")
		require.NoError(t, err)

		// When: the game is evicted and the id is requested again
		require.NoError(t, reg.Remove(ctx, "abc"))

		fresh, created, err := reg.GetOrCreate(ctx, "abc")
		require.NoError(t, err)

		// Then: the new game shares the id but none of the old state
		assert.True(t, created)
		assert.NotSame(t, old, fresh)
		assert.Empty(t, fresh.Snapshot().Players)
	})

	t.Run("Eviction releases the token reservation", func(t *testing.T) {
		tokens := &stubTokenSource{}
		reg := New(tokens)

		// Given: a game under a registry-generated token
		g, _, err := reg.GetOrCreate(ctx, "")
		require.NoError(t, err)

		// When: the game is evicted
		require.NoError(t, reg.Remove(ctx, g.ID()))

		// Then: the reservation is handed back, not left to its TTL
		assert.Equal(t, []string{g.ID()}, tokens.releasedTokens())
	})

	t.Run("Removing an absent id is a no-op", func(t *testing.T) {
		reg := New(&stubTokenSource{})

		require.NoError(t, reg.Remove(ctx, "never-existed"))

		assert.Equal(t, 0, reg.Len())
	})
}
