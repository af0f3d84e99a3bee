package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/floorstats/tracker/internal/game"
	"github.com/floorstats/tracker/internal/roster"
)

// RosterResponse is one roster, sorted by jersey number, plus the tesser
// brackets known across all rosters for the add/edit form.
type RosterResponse struct {
	Category     string          `json:"category"`
	Season       string          `json:"season"`
	Players      []roster.Player `json:"players"`
	TesserValues []string        `json:"tesser_values"`
}

func rosterStatus(err error) (int, string) {
	switch {
	case errors.Is(err, roster.ErrInvalidCategory):
		return http.StatusBadRequest, "invalid category"
	case errors.Is(err, roster.ErrInvalidSeason):
		return http.StatusBadRequest, "invalid season"
	case errors.Is(err, roster.ErrUnsafePath):
		return http.StatusBadRequest, "invalid roster name"
	case errors.Is(err, roster.ErrNotFound):
		return http.StatusNotFound, "roster not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func handleGetRoster(logger *slog.Logger, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		category, season := q.Get("category"), q.Get("season")

		players, err := rosters.Load(category, season)
		if err != nil {
			status, msg := rosterStatus(err)
			if status == http.StatusInternalServerError {
				logger.Error("loading roster", "category", category, "error", err)
			}
			writeError(w, status, msg)
			return
		}
		roster.SortByNumber(players)

		tesser, err := rosters.TesserValues()
		if err != nil {
			logger.Error("listing tesser values", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, RosterResponse{
			Category:     category,
			Season:       season,
			Players:      players,
			TesserValues: tesser,
		})
	}
}

// PlayerRequest carries one roster entry plus the roster it belongs to.
type PlayerRequest struct {
	Category string `json:"category"`
	Season   string `json:"season"`

	Number   string `json:"number"`
	Surname  string `json:"surname"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Position string `json:"position"`
	Tesser   string `json:"tesser"`
}

func (req PlayerRequest) player(id string) roster.Player {
	return roster.Player{
		ID:       id,
		Number:   req.Number,
		Surname:  req.Surname,
		Name:     req.Name,
		Nickname: req.Nickname,
		Position: req.Position,
		Tesser:   req.Tesser,
	}
}

func handleAddPlayer(logger *slog.Logger, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Surname == "" || req.Name == "" {
			writeError(w, http.StatusBadRequest, "surname and name are required")
			return
		}

		players, err := rosters.Load(req.Category, req.Season)
		if err != nil {
			status, msg := rosterStatus(err)
			writeError(w, status, msg)
			return
		}

		p := req.player(strconv.Itoa(roster.MaxID(players) + 1))
		players = append(players, p)

		if err := rosters.Save(players, req.Category, req.Season); err != nil {
			logger.Error("saving roster", "category", req.Category, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func handleEditPlayer(logger *slog.Logger, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")

		var req PlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		players, err := rosters.Load(req.Category, req.Season)
		if err != nil {
			status, msg := rosterStatus(err)
			writeError(w, status, msg)
			return
		}

		found := false
		for i := range players {
			if players[i].ID == playerID {
				players[i] = req.player(playerID)
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}

		if err := rosters.Save(players, req.Category, req.Season); err != nil {
			logger.Error("saving roster", "category", req.Category, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, req.player(playerID))
	}
}

func handleDeletePlayer(logger *slog.Logger, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")
		q := r.URL.Query()
		category, season := q.Get("category"), q.Get("season")

		players, err := rosters.Load(category, season)
		if err != nil {
			status, msg := rosterStatus(err)
			writeError(w, status, msg)
			return
		}

		kept := players[:0]
		for _, p := range players {
			if p.ID != playerID {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(players) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}

		if err := rosters.Save(kept, category, season); err != nil {
			logger.Error("saving roster", "category", category, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// BulkImportRequest pastes a whole roster at once; Text is one player
// per line, tab or comma separated.
type BulkImportRequest struct {
	Category string `json:"category"`
	Season   string `json:"season"`
	Text     string `json:"text"`
}

// BulkImportResponse reports how many entries the paste produced.
type BulkImportResponse struct {
	Imported int             `json:"imported"`
	Players  []roster.Player `json:"players"`
}

func handleBulkImport(logger *slog.Logger, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkImportRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		players, err := rosters.Load(req.Category, req.Season)
		if err != nil {
			status, msg := rosterStatus(err)
			writeError(w, status, msg)
			return
		}

		imported := roster.ParseBulk(req.Text, roster.MaxID(players)+1)
		if len(imported) == 0 {
			writeError(w, http.StatusBadRequest, "no players recognized")
			return
		}
		players = append(players, imported...)

		if err := rosters.Save(players, req.Category, req.Season); err != nil {
			logger.Error("saving roster", "category", req.Category, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, BulkImportResponse{Imported: len(imported), Players: imported})
	}
}

// BulkDeleteRequest removes several players from a roster in one call.
type BulkDeleteRequest struct {
	Category string   `json:"category"`
	Season   string   `json:"season"`
	IDs      []string `json:"ids"`
}

func handleBulkDelete(logger *slog.Logger, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkDeleteRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		players, err := rosters.Load(req.Category, req.Season)
		if err != nil {
			status, msg := rosterStatus(err)
			writeError(w, status, msg)
			return
		}

		drop := make(map[string]bool, len(req.IDs))
		for _, id := range req.IDs {
			drop[id] = true
		}
		kept := players[:0]
		for _, p := range players {
			if !drop[p.ID] {
				kept = append(kept, p)
			}
		}

		if err := rosters.Save(kept, req.Category, req.Season); err != nil {
			logger.Error("saving roster", "category", req.Category, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"deleted": len(players) - len(kept)})
	}
}

// DeleteRosterResponse reports a refused roster delete: InUse carries
// the number of games still referencing the roster's category.
type DeleteRosterResponse struct {
	InUse int `json:"in_use"`
}

// handleDeleteRoster removes a whole roster file. Deleting a roster that
// games still reference needs force=true; the refusal reports how many
// games are in the way.
func handleDeleteRoster(logger *slog.Logger, games *game.Repository, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		category, season := q.Get("category"), q.Get("season")

		if q.Get("force") != "true" {
			collection, err := games.Load()
			if err != nil {
				logger.Error("loading games", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			inUse := 0
			for _, g := range collection {
				if g.Team == category && (season == "" || g.Season == season) {
					inUse++
				}
			}
			if inUse > 0 {
				writeJSON(w, http.StatusConflict, DeleteRosterResponse{InUse: inUse})
				return
			}
		}

		if err := rosters.Delete(category, season); err != nil {
			status, msg := rosterStatus(err)
			if status == http.StatusInternalServerError {
				logger.Error("deleting roster", "category", category, "error", err)
			}
			writeError(w, status, msg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
