package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/lol-randomizer/internal/catalog"
	"github.com/DoyleJ11/lol-randomizer/internal/config"
	"github.com/DoyleJ11/lol-randomizer/internal/httpapi"
	"github.com/DoyleJ11/lol-randomizer/internal/hub"
	"github.com/DoyleJ11/lol-randomizer/internal/lobby"
	"github.com/DoyleJ11/lol-randomizer/internal/logging"
	"github.com/DoyleJ11/lol-randomizer/internal/players"
	"github.com/DoyleJ11/lol-randomizer/internal/render"
	"github.com/DoyleJ11/lol-randomizer/internal/riot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "lol-randomizer:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.LoadOrEmpty(cfg.ChampionRolesFile, logger)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	registry := players.NewRegistry(store, logger)

	rc := riot.New(cfg.RiotAPIKey, riot.WithLogger(logger), riot.WithCachePath(cfg.ChampionCacheFile))
	if cfg.RiotAPIKey == "" {
		logger.Warn("RIOT_API_KEY not set, riot account linking is disabled")
	}

	h := hub.NewHub(ctx, lobby.Deps{
		Catalog:  cat,
		Roster:   registry,
		Portrait: portraits(ctx, rc, logger),
		Logger:   logger,
		Timeout:  cfg.RollTimeout,
	})

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(httpapi.NewServer(h, registry, rc, logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Int("champions", cat.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		h.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStore(cfg config.Config, logger *zap.Logger) (players.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		s, err := players.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("player registry on postgres")
		return s, func() { _ = s.Close() }, nil
	}

	s, err := players.OpenFileStore(cfg.PlayersFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("player registry on file", zap.String("path", cfg.PlayersFile))
	return s, func() {}, nil
}

// portraits resolves the Data Dragon version once. Without it the board is
// drawn without portraits.
func portraits(ctx context.Context, rc *riot.Client, logger *zap.Logger) render.PortraitFunc {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cc, err := rc.Champions(ctx)
	if err != nil {
		logger.Warn("champion portraits unavailable", zap.Error(err))
		return nil
	}
	return func(championID string) string { return rc.PortraitURL(cc.Version, championID) }
}
