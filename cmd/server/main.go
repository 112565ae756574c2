package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
	"github.com/saeidalz13/battleship-solo/models/match"
)

const shutdownTimeout = time.Second * 10

func main() {
	defaultConfigPath := config.DefaultConfigPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		defaultConfigPath = p
	}
	configPath := flag.String("config", defaultConfigPath, "path to the server yaml config")
	flag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg.Stage, cfg.LogLevel)

	// without a database analytics are a no-op
	var querier sqlc.Querier
	if cfg.DatabaseUrl != "" {
		conn := db.MustConnectToDb(cfg.DatabaseUrl, logger)
		defer conn.Close()
		querier = sqlc.New(conn)
	} else {
		logger.Warn("DATABASE_URL is not set; analytics disabled")
	}
	dbManager := sqlc.NewDbManager(querier)

	sessionManager := mc.NewBattleshipSessionManager(logger, cfg.Session.CleanupInterval, cfg.Session.GracePeriod)
	gameManager := match.NewBattleshipGameManager(logger, cfg.Game.PlacementAttempts)

	rp := api.NewRequestProcessor(
		sessionManager,
		gameManager,
		dbManager.Analytics,
		api.WithLogger(logger),
		api.WithSeed(cfg.Seed),
		api.WithWebsocketConfig(cfg.Websocket),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	server := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "port", cfg.Port, "stage", cfg.Stage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessionManager.CleanupPeriodically(gCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down", "sessions", sessionManager.Count(), "games", gameManager.Count())
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
