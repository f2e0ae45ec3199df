package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/ruleta/internal/config"
	"github.com/playperu/ruleta/internal/database"
	"github.com/playperu/ruleta/internal/game"
	"github.com/playperu/ruleta/internal/handler/health"
	"github.com/playperu/ruleta/internal/migrations"
	"github.com/playperu/ruleta/internal/ruleta"
	"github.com/playperu/ruleta/internal/server"
	"github.com/playperu/ruleta/internal/wheel"
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

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.Info("loaded catalog", "categories", len(catalog), "path", cfg.CatalogPath)

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	checks := map[string]health.Checker{"sqlite": health.SQL(db)}

	// --- Redis ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		checks["redis"] = health.Redis(rdb)
		logger.Info("connected to redis")
	}

	// --- Game ---
	store, err := server.NewStore(ctx, cfg.StoreBackend, db, rdb)
	if err != nil {
		return fmt.Errorf("creating question store: %w", err)
	}
	logger.Info("question store ready", "backend", cfg.StoreBackend)

	broker := server.NewBroker()
	games := game.NewRegistry(game.Options{
		Catalog:   catalog,
		Store:     store,
		RNG:       wheel.DefaultRNG(),
		Scheduler: game.RealScheduler(),
		Delay:     cfg.SpinDelay,
		Logger:    logger,
		OnChange:  broker.Publish,
	})
	defer games.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Games:        games,
		Broker:       broker,
		Accounts:     server.NewAccountStore(db),
		SPADir:       cfg.SPADir,
		CookieSecure: cfg.CookieSecure,
		Mount: func(r chi.Router) {
			r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
		},
	})

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

func loadCatalog(path string) ([]ruleta.Category, error) {
	if path == "" {
		return ruleta.DefaultCatalog(), nil
	}
	catalog, err := ruleta.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog, nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
