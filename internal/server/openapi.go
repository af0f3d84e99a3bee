package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Floorball Tracker API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for live floorball game tracking and statistics.")

	// POST /api/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with the shared PIN. Sets the session cookie.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Invalidates the session and clears the cookie.")
	postLogout.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current session")
	getMe.SetDescription("Reports whether the request carries a valid session cookie.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns stored games newest first, optionally filtered by season and team.")
	listGames.AddRespStructure(ListGamesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listGames)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a game with lines, goalies, and formations resolved from the roster.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns one game plus roster display names, repairing older records in place.")
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// PUT /api/games/{gameID}
	updateGame, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}")
	updateGame.SetSummary("Update game")
	updateGame.SetDescription("Updates game metadata and lineup. Recorded stats and the id are kept.")
	updateGame.AddReqStructure(CreateGameRequest{})
	updateGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	updateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Delete game")
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// PUT /api/games/{gameID}/json
	editJSON, _ := r.NewOperationContext(http.MethodPut, "/api/games/{gameID}/json")
	editJSON.SetSummary("Replace game JSON")
	editJSON.SetDescription("Replaces the stored game with the raw JSON body. The stored id is preserved.")
	editJSON.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	editJSON.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	editJSON.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(editJSON)

	// POST /api/games/{gameID}/player/{player}/action
	playerAction, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/player/{player}/action")
	playerAction.SetSummary("Record player action")
	playerAction.SetDescription("Applies a counting action to a player and returns the updated game.")
	playerAction.AddReqStructure(ActionRequest{})
	playerAction.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	playerAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	playerAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(playerAction)

	// POST /api/games/{gameID}/goalie/{goalie}/action
	goalieAction, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/goalie/{goalie}/action")
	goalieAction.SetSummary("Record goalie action")
	goalieAction.AddReqStructure(ActionRequest{})
	goalieAction.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	goalieAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	goalieAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(goalieAction)

	// POST /api/games/{gameID}/opponent-goalie/action
	opponentAction, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/opponent-goalie/action")
	opponentAction.SetSummary("Record opponent goalie action")
	opponentAction.AddReqStructure(ActionRequest{})
	opponentAction.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	opponentAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	opponentAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(opponentAction)

	// POST /api/games/{gameID}/lines/{line}/action
	lineAction, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/lines/{line}/action")
	lineAction.SetSummary("Record line action")
	lineAction.SetDescription("Applies an action to every player of a line at once.")
	lineAction.AddReqStructure(ActionRequest{})
	lineAction.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	lineAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	lineAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(lineAction)

	// POST /api/games/{gameID}/period
	setPeriod, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/period")
	setPeriod.SetSummary("Select period")
	setPeriod.AddReqStructure(PeriodRequest{})
	setPeriod.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	setPeriod.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	setPeriod.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(setPeriod)

	// POST /api/games/{gameID}/reset
	resetGame, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/reset")
	resetGame.SetSummary("Reset game stats")
	resetGame.SetDescription("Zeroes all recorded counters and period scores of a game.")
	resetGame.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	resetGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(resetGame)

	// GET /api/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/stats")
	getStats.SetSummary("Aggregate statistics")
	getStats.SetDescription("Per-player and per-goalie totals over the filtered games, oldest first.")
	getStats.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getStats)

	// GET /api/seasons
	getSeasons, _ := r.NewOperationContext(http.MethodGet, "/api/seasons")
	getSeasons.SetSummary("List seasons")
	getSeasons.AddRespStructure(SeasonsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getSeasons)

	// GET /api/categories
	getCategories, _ := r.NewOperationContext(http.MethodGet, "/api/categories")
	getCategories.SetSummary("List team categories")
	getCategories.AddRespStructure(CategoriesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCategories)

	// GET /api/roster
	getRoster, _ := r.NewOperationContext(http.MethodGet, "/api/roster")
	getRoster.SetSummary("Get roster")
	getRoster.SetDescription("Returns the roster for a category and season, sorted by jersey number.")
	getRoster.AddRespStructure(RosterResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoster.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getRoster)

	// DELETE /api/roster
	deleteRoster, _ := r.NewOperationContext(http.MethodDelete, "/api/roster")
	deleteRoster.SetSummary("Delete roster")
	deleteRoster.SetDescription("Deletes a roster file. Refused with 409 while games reference it, unless force=true.")
	deleteRoster.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteRoster.AddRespStructure(DeleteRosterResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	deleteRoster.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteRoster)

	// POST /api/roster/player
	addPlayer, _ := r.NewOperationContext(http.MethodPost, "/api/roster/player")
	addPlayer.SetSummary("Add player")
	addPlayer.AddReqStructure(PlayerRequest{})
	addPlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusCreated))
	addPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(addPlayer)

	// PUT /api/roster/player/{playerID}
	editPlayer, _ := r.NewOperationContext(http.MethodPut, "/api/roster/player/{playerID}")
	editPlayer.SetSummary("Edit player")
	editPlayer.AddReqStructure(PlayerRequest{})
	editPlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	editPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(editPlayer)

	// DELETE /api/roster/player/{playerID}
	deletePlayer, _ := r.NewOperationContext(http.MethodDelete, "/api/roster/player/{playerID}")
	deletePlayer.SetSummary("Delete player")
	deletePlayer.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deletePlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deletePlayer)

	// POST /api/roster/bulk-import
	bulkImport, _ := r.NewOperationContext(http.MethodPost, "/api/roster/bulk-import")
	bulkImport.SetSummary("Bulk import players")
	bulkImport.SetDescription("Parses a pasted list, one player per line, tab or comma separated.")
	bulkImport.AddReqStructure(BulkImportRequest{})
	bulkImport.AddRespStructure(BulkImportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	bulkImport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(bulkImport)

	// POST /api/roster/bulk-delete
	bulkDelete, _ := r.NewOperationContext(http.MethodPost, "/api/roster/bulk-delete")
	bulkDelete.SetSummary("Bulk delete players")
	bulkDelete.AddReqStructure(BulkDeleteRequest{})
	bulkDelete.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	bulkDelete.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(bulkDelete)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
