package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pocketarcade/tictactoe-live/internal/entity"
)

const defaultLeaderboardLimit = 10

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// leaderboardHandler - returns the aggregated win tally as JSON.
// Supports an optional ?limit= query parameter.
func leaderboardHandler(results resultRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLeaderboardLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		entries, err := results.Leaderboard(r.Context(), limit)
		if err != nil {
			http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
			return
		}

		if entries == nil {
			entries = []entity.LeaderboardEntry{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err = json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, "failed to encode leaderboard", http.StatusInternalServerError)
		}
	}
}
