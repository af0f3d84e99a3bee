package server

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/floorstats/tracker/internal/game"
	"github.com/floorstats/tracker/internal/roster"
	"github.com/floorstats/tracker/internal/stats"
)

func handleStats(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, err := loadGames(games)
		if err != nil {
			logger.Error("loading games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		q := r.URL.Query()
		filtered := stats.Filter(collection, q.Get("season"), q.Get("team"))
		sorted := stats.SortForStats(filtered)
		hideZero := q.Get("hide_zero") == "true"

		writeJSON(w, http.StatusOK, stats.Calculate(sorted, hideZero, logger))
	}
}

// SeasonsResponse merges the seasons seen in stored games with the
// seasons roster files exist for, newest first.
type SeasonsResponse struct {
	Seasons []string `json:"seasons"`
}

func handleSeasons(logger *slog.Logger, games *game.Repository, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := rosters.Seasons()
		if err != nil {
			logger.Error("listing roster seasons", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		collection, err := games.Load()
		if err != nil {
			logger.Error("loading games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		seen := make(map[string]bool, len(seasons))
		for _, s := range seasons {
			seen[s] = true
		}
		for _, g := range collection {
			if g.Season != "" && !seen[g.Season] {
				seen[g.Season] = true
				seasons = append(seasons, g.Season)
			}
		}
		sort.Sort(sort.Reverse(sort.StringSlice(seasons)))

		writeJSON(w, http.StatusOK, SeasonsResponse{Seasons: seasons})
	}
}

// CategoriesResponse lists the team categories a season has rosters for.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func handleCategories(logger *slog.Logger, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := rosters.Categories(r.URL.Query().Get("season"))
		if err != nil {
			logger.Error("listing categories", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
	}
}
