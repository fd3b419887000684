package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/config"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/database"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/handlers"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/jobs"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/log"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/mail"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/middleware"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/repository"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/server"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/storage"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := log.New(cfg.Environment, cfg.LogLevel)

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect postgres")
		return err
	}
	defer dbPool.Close()

	db, err := database.OpenGorm(dbPool, logger, cfg.Postgres.SlowThreshold)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open gorm")
		return err
	}

	applied, err := database.NewMigrator(db, logger, database.Migrations).Up(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("migrations failed")
		return err
	}
	if len(applied) > 0 {
		logger.Info().Strs("applied", applied).Msg("migrations applied")
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Error().Err(err).Msg("failed to init storage")
		return err
	}
	if mb, ok := store.(*storage.MinioBackend); ok {
		if err := mb.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
	}

	mailer, err := newMailer(cfg.Mail, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to init mailer")
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewHTTPMetrics(registry)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	handlerSet := handlers.NewHandlerSet(logger, db, sqlDB, store, mailer, metrics, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, metrics, handlerSet)

	scheduler := jobs.NewScheduler(
		repository.NewUserRepository(db),
		cfg.Security.ResetTokenSweepCron,
		cfg.Security.ResetTokenRetention,
		logger,
	)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	return waitForShutdown(ctx, logger, httpServer, scheduler, dbPool, errCh)
}

func newMailer(cfg config.MailConfig, logger zerolog.Logger) (mail.Mailer, error) {
	renderer, err := mail.NewRenderer()
	if err != nil {
		return nil, err
	}
	if cfg.Transport == "" {
		logger.Warn().Msg("MAIL_TRANSPORT not set, reset mails are only logged")
		return mail.NewLogMailer(renderer, logger), nil
	}
	return mail.NewShoutrrrMailer(cfg.Transport, renderer, logger)
}

func waitForShutdown(ctx context.Context, logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, errCh <-chan error) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error().Err(serveErr).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduler did not stop in time")
	}

	db.Close()
	logger.Info().Msg("server exited cleanly")
	return serveErr
}
