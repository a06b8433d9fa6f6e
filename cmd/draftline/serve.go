// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/draftline/draftline/internal/auction"
	"github.com/draftline/draftline/internal/auth"
	"github.com/draftline/draftline/internal/config"
	"github.com/draftline/draftline/internal/httpapi"
	"github.com/draftline/draftline/internal/logging"
	"github.com/draftline/draftline/internal/natspub"
	"github.com/draftline/draftline/internal/observability"
	"github.com/draftline/draftline/internal/realtime"
	"github.com/draftline/draftline/internal/store"
)

// newServeCmd creates the serve subcommand. Flag names mirror the config
// file keys so koanf can overlay them.
func newServeCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the draft coordination server",
		Long: `Start the HTTP API, the live event stream, and the observability
endpoints. Shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: runServe,
	}

	cmd.Flags().String("server.addr", defaults.Server.Addr, "API listen address")
	cmd.Flags().String("server.observability_addr", defaults.Server.ObservabilityAddr, "metrics/health listen address")
	cmd.Flags().Duration("server.shutdown_timeout", defaults.Server.ShutdownTimeout, "graceful shutdown timeout")
	cmd.Flags().String("database.url", defaults.Database.URL, "PostgreSQL connection URL")
	cmd.Flags().Bool("database.auto_migrate", defaults.Database.AutoMigrate, "run pending migrations on startup")
	cmd.Flags().String("log.format", defaults.Log.Format, "log format (json or text)")
	cmd.Flags().String("log.level", defaults.Log.Level, "log level (debug, info, warn, error)")
	cmd.Flags().String("nats.url", defaults.NATS.URL, "NATS server URL (empty = disabled)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("draftline", version, cfg.Log.Format, cfg.Log.Level)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	repos := store.NewRepositories(pool)

	var ready atomic.Bool
	obs := observability.NewServer(cfg.Server.ObservabilityAddr, ready.Load)

	hub := realtime.NewHub(logger, obs.Metrics())
	defer hub.Close()

	publisher := auction.MultiPublisher{hub}
	if cfg.NATS.URL != "" {
		np, err := natspub.Connect(cfg.NATS.URL, cfg.NATS.SubjectPrefix, logger)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := np.Close(); closeErr != nil {
				logger.Warn("nats close failed", "error", closeErr)
			}
		}()
		publisher = append(publisher, np)
		logger.Info("nats publisher enabled", "subject_prefix", cfg.NATS.SubjectPrefix)
	}

	coord, err := auction.NewCoordinator(auction.CoordinatorConfig{
		Auctions:  repos.Auctions,
		Teams:     repos.Teams,
		Items:     repos.Items,
		Picks:     repos.Picks,
		Slots:     repos.Slots,
		Audit:     repos.Audit,
		Tx:        repos.Tx,
		Publisher: publisher,
		Metrics:   auction.NewMetrics(obs.Registry()),
	})
	if err != nil {
		return err
	}

	resolver, err := auth.NewResolver(repos.Credentials)
	if err != nil {
		return err
	}
	handler, err := httpapi.NewHandler(coord, repos.Teams, repos.Picks, repos.Audit)
	if err != nil {
		return err
	}
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Handler:       handler,
		Resolver:      resolver,
		Logger:        logger,
		Metrics:       obs.Metrics(),
		EventsHandler: hub,
	})

	obsErrCh, err := obs.Start()
	if err != nil {
		return err
	}

	apiSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	apiErrCh := make(chan error, 1)
	go func() {
		if serveErr := apiSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			apiErrCh <- serveErr
		}
	}()

	ready.Store(true)
	logger.Info("draftline server started",
		"addr", cfg.Server.Addr,
		"observability_addr", cfg.Server.ObservabilityAddr,
		"version", version,
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-apiErrCh:
		return oops.Code("API_SERVER_FAILED").Wrap(serveErr)
	case obsErr := <-obsErrCh:
		if obsErr != nil {
			return oops.Code("OBSERVABILITY_SERVER_FAILED").Wrap(obsErr)
		}
	}

	ready.Store(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("SHUTDOWN_FAILED").Wrap(err)
	}
	hub.Close()
	if err := obs.Stop(shutdownCtx); err != nil {
		return err
	}
	logger.Info("draftline server stopped")
	return nil
}

// autoMigrate applies any pending migrations.
func autoMigrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("migrator close failed", "error", closeErr)
		}
	}()
	return migrator.Up()
}
