package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/floorstats/tracker/internal/game"
)

// ActionRequest is the body of every in-game action endpoint. Edit turns
// a counting action into a correction; the flag is echoed back so the
// client can keep its correction mode in sync.
type ActionRequest struct {
	Action string `json:"action"`
	Edit   bool   `json:"edit"`
}

// ActionResponse returns the updated game after an action was applied.
type ActionResponse struct {
	Game *game.Game `json:"game"`
	Edit bool       `json:"edit"`
}

// withGame loads the collection, finds the target game, runs fn against
// it, and persists the collection. Action handlers only differ in fn.
func withGame(logger *slog.Logger, games *game.Repository, w http.ResponseWriter, r *http.Request, edit bool, fn func(g *game.Game) error) {
	id, ok := gameID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	collection, err := loadGames(games)
	if err != nil {
		logger.Error("loading games", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	g := game.FindByID(collection, id)
	if g == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	g.Normalize()

	if err := fn(g); err != nil {
		switch {
		case errors.Is(err, game.ErrUnknownAction):
			writeError(w, http.StatusBadRequest, "unknown action")
		case errors.Is(err, game.ErrInvalidPeriod):
			writeError(w, http.StatusBadRequest, "invalid period")
		case errors.Is(err, game.ErrLineNotFound):
			writeError(w, http.StatusNotFound, "line not found")
		default:
			logger.Error("applying action", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if err := games.Save(collection); err != nil {
		logger.Error("saving games", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Game: g, Edit: edit})
}

func handlePlayerAction(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := chi.URLParam(r, "player")
		var req ActionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		withGame(logger, games, w, r, req.Edit, func(g *game.Game) error {
			return g.ApplyPlayerAction(player, req.Action)
		})
	}
}

func handleGoalieAction(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		goalie := chi.URLParam(r, "goalie")
		var req ActionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		withGame(logger, games, w, r, req.Edit, func(g *game.Game) error {
			return g.ApplyGoalieAction(goalie, req.Action)
		})
	}
}

func handleOpponentGoalieAction(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ActionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		withGame(logger, games, w, r, req.Edit, func(g *game.Game) error {
			return g.ApplyOpponentGoalieAction(req.Action)
		})
	}
}

func handleLineAction(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineIdx, err := strconv.Atoi(chi.URLParam(r, "line"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid line")
			return
		}
		var req ActionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		withGame(logger, games, w, r, req.Edit, func(g *game.Game) error {
			return g.ApplyLineAction(lineIdx, req.Action)
		})
	}
}

// PeriodRequest selects the period subsequent goals are booked into.
type PeriodRequest struct {
	Period string `json:"period"`
}

func handleSetPeriod(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PeriodRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		withGame(logger, games, w, r, false, func(g *game.Game) error {
			return g.SetPeriod(req.Period)
		})
	}
}

func handleResetGame(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withGame(logger, games, w, r, false, func(g *game.Game) error {
			g.Reset()
			return nil
		})
	}
}
