package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/attractions-admin/config"
	"github.com/target/attractions-admin/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) (err error) {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err = bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	infra, err := bootstrap.Connect(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{
		Config: &cfg,
		Infra:  infra,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return bootstrap.RunServices(ctx, bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Infra:    infra,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting attractions admin",
		"auth_mode", cfg.Auth.Mode,
		"session_store", cfg.Session.Store,
		"session_ttl", cfg.Session.TTL,
		"http_addr", cfg.HTTP.Addr,
		"enabled_services", bootstrap.GetEnabledServices(cfg),
		"dev", cfg.IsDev,
	)
}
