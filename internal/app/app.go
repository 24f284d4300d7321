// Package app wires configuration, storage and services together for the
// command line entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/emilythestrangee/bugai/backend/internal/auth"
	"github.com/emilythestrangee/bugai/backend/internal/cache"
	"github.com/emilythestrangee/bugai/backend/internal/config"
	"github.com/emilythestrangee/bugai/backend/internal/database"
	"github.com/emilythestrangee/bugai/backend/internal/logger"
	"github.com/emilythestrangee/bugai/backend/internal/metrics"
	"github.com/emilythestrangee/bugai/backend/internal/services"
	"github.com/emilythestrangee/bugai/backend/internal/telemetry"
)

// Version is stamped at build time with -ldflags
var Version = "dev"

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       database.Service
	Cache    cache.Store
	Metrics  *metrics.Metrics
	Reporter *telemetry.Reporter
	Services *services.Services
}

// Open loads the configuration, connects to the database and migrates it.
// Everything Open returns must be released with Close.
func Open(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return OpenWithConfig(ctx, cfg)
}

func OpenWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Logging)
	a := &App{Config: cfg, Logger: log}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := db.Migrate(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if tokens.Ephemeral() {
		log.Warn("auth.jwtSecret is empty, using a random secret; tokens will not survive a restart")
	}

	store, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	a.Cache = store

	if cfg.Metrics.Enabled {
		m, err := metrics.New()
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		a.Metrics = m
	}

	reporter, err := telemetry.New(cfg.Sentry, Version)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Reporter = reporter

	a.Services = services.New(services.Deps{
		DB:            db.GetDB(),
		Cache:         store,
		Metrics:       a.Metrics,
		Logger:        log,
		StatisticsTTL: cfg.Cache.StatisticsTTL,
	}, tokens)

	return a, nil
}

// Close releases the cache and database and flushes pending error reports
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	a.Reporter.Flush(2 * time.Second)
	return errors.Join(errs...)
}
