package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/floorstats/tracker/internal/game"
	"github.com/floorstats/tracker/internal/roster"
	"github.com/floorstats/tracker/internal/stats"
)

// ListGamesResponse is the response for GET /api/games.
type ListGamesResponse struct {
	Games        []game.Game `json:"games"`
	LatestGameID *int        `json:"latest_game_id"`
	Teams        []string    `json:"teams"`
}

// CreateGameRequest is the request body for POST /api/games and
// PUT /api/games/{gameID}. Lines, goalies, and formations reference
// roster players by their roster id; unknown ids are skipped.
type CreateGameRequest struct {
	Season     string              `json:"season"`
	Team       string              `json:"team"`
	HomeTeam   string              `json:"home_team"`
	AwayTeam   string              `json:"away_team"`
	Date       string              `json:"date"`
	Referee1   string              `json:"referee1"`
	Referee2   string              `json:"referee2"`
	Lines      [][]string          `json:"lines"`
	Goalies    []string            `json:"goalies"`
	Formations map[string][]string `json:"formations"`

	EnableOpponentGoalie bool `json:"enable_opponent_goalie"`
}

// GameResponse is a single game plus its roster display names.
type GameResponse struct {
	Game            *game.Game        `json:"game"`
	PlayerNicknames map[string]string `json:"player_nicknames"`
}

func gameID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "gameID"))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// loadGames wraps Repository.Load with the one-shot id repair pass the
// views run: ids are assigned or deduplicated and persisted on the spot.
func loadGames(games *game.Repository) ([]game.Game, error) {
	collection, err := games.Load()
	if err != nil {
		return nil, err
	}
	if game.EnsureIDs(collection) {
		if err := games.Save(collection); err != nil {
			return nil, err
		}
	}
	return collection, nil
}

func handleListGames(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collection, err := loadGames(games)
		if err != nil {
			logger.Error("loading games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sorted := stats.SortForDisplay(collection)
		filtered := stats.Filter(sorted, r.URL.Query().Get("season"), r.URL.Query().Get("team"))

		resp := ListGamesResponse{
			Games: filtered,
			Teams: stats.Teams(collection),
		}
		if len(filtered) > 0 {
			id := filtered[0].ID
			resp.LatestGameID = &id
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// formationKeys are the fixed special-formation slots a game can carry.
var formationKeys = []string{"pp1", "pp2", "bp1", "bp2", "6vs5", "stress_line"}

// resolveLineup turns roster player ids into canonical player keys,
// against the roster for (team, season). Unknown ids are dropped.
func resolveLineup(rosters *roster.Repository, req CreateGameRequest) (lines [][]string, goalies []string, formations map[string][]string, err error) {
	players, err := rosters.Load(req.Team, req.Season)
	if err != nil {
		return nil, nil, nil, err
	}
	byID := make(map[string]roster.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	resolve := func(ids []string) []string {
		keys := make([]string, 0, len(ids))
		for _, id := range ids {
			if p, ok := byID[id]; ok {
				keys = append(keys, p.Key())
			}
		}
		return keys
	}

	lines = make([][]string, 4)
	for i := range lines {
		lines[i] = []string{}
		if i < len(req.Lines) {
			lines[i] = resolve(req.Lines[i])
		}
	}

	goalieIDs := req.Goalies
	if len(goalieIDs) > 2 {
		goalieIDs = goalieIDs[:2]
	}
	goalies = resolve(goalieIDs)

	formations = make(map[string][]string)
	for _, key := range formationKeys {
		if ids, ok := req.Formations[key]; ok {
			formations[key] = resolve(ids)
		}
	}
	return lines, goalies, formations, nil
}

func applyFormations(g *game.Game, formations map[string][]string) {
	for key, players := range formations {
		switch key {
		case "pp1":
			g.PP1 = players
		case "pp2":
			g.PP2 = players
		case "bp1":
			g.BP1 = players
		case "bp2":
			g.BP2 = players
		case "6vs5":
			g.SixOnFive = players
		case "stress_line":
			g.StressLine = players
		}
	}
}

func handleCreateGame(logger *slog.Logger, games *game.Repository, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		lines, goalies, formations, err := resolveLineup(rosters, req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid team or season")
			return
		}

		collection, err := loadGames(games)
		if err != nil {
			logger.Error("loading games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		g := game.Game{
			ID:       game.NextID(collection),
			Season:   req.Season,
			Team:     req.Team,
			HomeTeam: req.HomeTeam,
			AwayTeam: req.AwayTeam,
			Date:     req.Date,
			Referee1: req.Referee1,
			Referee2: req.Referee2,
			Lines:    lines,
			Goalies:  goalies,

			OpponentGoalieEnabled: req.EnableOpponentGoalie,
			CurrentPeriod:         "1",
		}
		applyFormations(&g, formations)
		g.Normalize()

		collection = append(collection, g)
		if err := games.Save(collection); err != nil {
			logger.Error("saving games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, GameResponse{Game: &g})
	}
}

func handleGetGame(logger *slog.Logger, games *game.Repository, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		// Repair older records in place so the client always sees a
		// complete game.
		if g.Normalize() {
			if err := games.Save(collection); err != nil {
				logger.Error("saving games", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		nicknames := map[string]string{}
		if g.Team != "" {
			if players, err := rosters.Load(g.Team, g.Season); err == nil {
				nicknames = roster.NicknameMap(players)
			}
		}

		writeJSON(w, http.StatusOK, GameResponse{Game: g, PlayerNicknames: nicknames})
	}
}

func handleUpdateGame(logger *slog.Logger, games *game.Repository, rosters *roster.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid game id")
			return
		}

		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		lines, goalies, formations, err := resolveLineup(rosters, req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid team or season")
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

		// Once opponent stats exist the flag stays on, so history is
		// never orphaned by an unticked checkbox.
		hasOpponentStats := len(g.OpponentGoalieSaves) > 0 || len(g.OpponentGoalieGoalsConceded) > 0

		g.Season = req.Season
		g.Team = req.Team
		g.HomeTeam = req.HomeTeam
		g.AwayTeam = req.AwayTeam
		g.Date = req.Date
		g.Referee1 = req.Referee1
		g.Referee2 = req.Referee2
		g.Lines = lines
		g.Goalies = goalies
		g.OpponentGoalieEnabled = req.EnableOpponentGoalie || hasOpponentStats
		applyFormations(g, formations)
		g.Normalize()

		if err := games.Save(collection); err != nil {
			logger.Error("saving games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, GameResponse{Game: g})
	}
}

func handleDeleteGame(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid game id")
			return
		}

		switch err := games.Delete(id); {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case err == game.ErrNotFound:
			writeError(w, http.StatusNotFound, "game not found")
		default:
			logger.Error("deleting game", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

// handleEditGameJSON replaces a game's entire contents with the raw JSON
// body of the request. The stored id always wins over whatever the
// payload claims.
func handleEditGameJSON(logger *slog.Logger, games *game.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid game id")
			return
		}

		var updated game.Game
		if err := readJSON(r, &updated); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
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

		updated.ID = id
		*g = updated

		if err := games.Save(collection); err != nil {
			logger.Error("saving games", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, GameResponse{Game: g})
	}
}
