package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketarcade/tictactoe-live/internal/entity"
)

type resultRepo interface {
	Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
}

func Start(port string, results resultRepo) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/leaderboard", leaderboardHandler(results))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
