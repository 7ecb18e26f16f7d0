package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pocketarcade/tictactoe-live/internal/entity"
	"github.com/pocketarcade/tictactoe-live/internal/repository/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResultRepo(t *testing.T) (context.Context, ResultRepository) {
	t.Helper()

	ctx := context.Background()

	sqliteStorage, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sqliteStorage.Close())
	})

	require.NoError(t, sqliteStorage.Init(ctx))

	return ctx, NewResultRepository(sqliteStorage.Connection)
}

func TestResultRepository_Save(t *testing.T) {
	ctx, resultRepo := newResultRepo(t)

	// Given: a finished round with a winner
	result := &entity.GameResult{
		GameID:     "g1",
		WinnerName: "Alice",
		WinnerTeam: entity.PlayerX,
		FinishedAt: time.Now().UTC(),
	}

	// When: saving it
	err := resultRepo.Save(ctx, result)

	// Then: it shows up in the leaderboard
	require.NoError(t, err)

	entries, err := resultRepo.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, 1, entries[0].Wins)
}

func TestResultRepository_Leaderboard(t *testing.T) {
	t.Run("Orders by win count and excludes draws", func(t *testing.T) {
		ctx, resultRepo := newResultRepo(t)

		// Given: Bob with two wins, Alice with one, plus a draw
		now := time.Now().UTC()
		results := []*entity.GameResult{
			{GameID: "g1", WinnerName: "Bob", WinnerTeam: entity.PlayerO, FinishedAt: now},
			{GameID: "g2", WinnerName: "Alice", WinnerTeam: entity.PlayerX, FinishedAt: now},
			{GameID: "g3", WinnerName: "Bob", WinnerTeam: entity.PlayerX, FinishedAt: now},
			{GameID: "g4", Draw: true, FinishedAt: now},
		}
		for _, result := range results {
			require.NoError(t, resultRepo.Save(ctx, result))
		}

		// When: reading the leaderboard
		entries, err := resultRepo.Leaderboard(ctx, 10)

		// Then: Bob leads with 2, Alice follows with 1, the draw is absent
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, entity.LeaderboardEntry{Name: "Bob", Wins: 2}, entries[0])
		assert.Equal(t, entity.LeaderboardEntry{Name: "Alice", Wins: 1}, entries[1])
	})

	t.Run("Respects the limit", func(t *testing.T) {
		ctx, resultRepo := newResultRepo(t)

		now := time.Now().UTC()
		for _, name := range []string{"Alice", "Bob", "Carol"} {
			require.NoError(t, resultRepo.Save(ctx, &entity.GameResult{
				GameID:     "g",
				WinnerName: name,
				WinnerTeam: entity.PlayerX,
				FinishedAt: now,
			}))
		}

		entries, err := resultRepo.Leaderboard(ctx, 2)

		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("An empty table yields no entries", func(t *testing.T) {
		ctx, resultRepo := newResultRepo(t)

		entries, err := resultRepo.Leaderboard(ctx, 10)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
