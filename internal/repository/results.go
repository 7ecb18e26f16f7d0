package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketarcade/tictactoe-live/internal/entity"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
}

type dbResult struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &dbResult{
		conn: conn,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	query := `INSERT INTO game_results (game_id, winner_name, winner_team, draw, finished_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.GameID, result.WinnerName, result.WinnerTeam, result.Draw, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}

	return nil
}

func (that *dbResult) Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	query := `SELECT winner_name, COUNT(*) AS wins FROM game_results
		WHERE draw = 0
		GROUP BY winner_name
		ORDER BY wins DESC, winner_name ASC
		LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []entity.LeaderboardEntry
	for rows.Next() {
		var entry entity.LeaderboardEntry
		if err = rows.Scan(&entry.Name, &entry.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard rows: %w", err)
	}

	return entries, nil
}
