package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/floorstats/tracker/internal/config"
	"github.com/floorstats/tracker/internal/game"
	"github.com/floorstats/tracker/internal/roster"
	"github.com/floorstats/tracker/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Storage ---
	if err := os.MkdirAll(cfg.RostersDir, 0o755); err != nil {
		return fmt.Errorf("creating rosters dir: %w", err)
	}
	games := game.NewRepository(cfg.GamesFile, logger)
	rosters := roster.NewRepository(cfg.RostersDir)
	logger.Info("using data directory", "games", cfg.GamesFile, "rosters", cfg.RostersDir)

	// --- Auth ---
	auth := server.NewAuthenticator(cfg.PIN, cfg.PINHash, cfg.SessionTTL)
	if cfg.PINHash == "" && cfg.PIN == "1717" {
		logger.Warn("running with the default PIN, set PIN or PIN_HASH")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, games, rosters, auth)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
