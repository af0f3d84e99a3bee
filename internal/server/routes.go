package server

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/floorstats/tracker/internal/game"
	"github.com/floorstats/tracker/internal/handler/health"
	"github.com/floorstats/tracker/internal/roster"
)

func addRoutes(r chi.Router, logger *slog.Logger, games *game.Repository, rosters *roster.Repository, auth *Authenticator) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Floorball Tracker API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
		"games": health.CheckerFunc(func(ctx context.Context) error {
			_, err := games.Load()
			return err
		}),
		"rosters": health.CheckerFunc(func(ctx context.Context) error {
			_, err := rosters.Seasons()
			return err
		}),
	}).Routes())

	r.Post("/api/login", handleLogin(auth))
	r.Post("/api/logout", handleLogout(auth))
	r.Get("/api/me", handleMe(auth))

	// Everything below needs a valid session cookie.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(auth))

		r.Get("/api/games", handleListGames(logger, games))
		r.Post("/api/games", handleCreateGame(logger, games, rosters))

		r.Route("/api/games/{gameID}", func(r chi.Router) {
			r.Get("/", handleGetGame(logger, games, rosters))
			r.Put("/", handleUpdateGame(logger, games, rosters))
			r.Delete("/", handleDeleteGame(logger, games))
			r.Put("/json", handleEditGameJSON(logger, games))

			r.Post("/player/{player}/action", handlePlayerAction(logger, games))
			r.Post("/goalie/{goalie}/action", handleGoalieAction(logger, games))
			r.Post("/opponent-goalie/action", handleOpponentGoalieAction(logger, games))
			r.Post("/lines/{line}/action", handleLineAction(logger, games))
			r.Post("/period", handleSetPeriod(logger, games))
			r.Post("/reset", handleResetGame(logger, games))
		})

		r.Get("/api/stats", handleStats(logger, games))
		r.Get("/api/seasons", handleSeasons(logger, games, rosters))
		r.Get("/api/categories", handleCategories(logger, rosters))

		r.Get("/api/roster", handleGetRoster(logger, rosters))
		r.Delete("/api/roster", handleDeleteRoster(logger, games, rosters))
		r.Post("/api/roster/player", handleAddPlayer(logger, rosters))
		r.Put("/api/roster/player/{playerID}", handleEditPlayer(logger, rosters))
		r.Delete("/api/roster/player/{playerID}", handleDeletePlayer(logger, rosters))
		r.Post("/api/roster/bulk-import", handleBulkImport(logger, rosters))
		r.Post("/api/roster/bulk-delete", handleBulkDelete(logger, rosters))
	})
}
