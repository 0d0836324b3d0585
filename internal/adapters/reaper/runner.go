// Package reaper provides the adapter that runs the expired-session reaper.
package reaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/attractions-admin/config"
	"github.com/target/attractions-admin/internal/adapters/postgres"
	"github.com/target/attractions-admin/internal/observability/statsd"
	"github.com/target/attractions-admin/internal/ports"
	"github.com/target/attractions-admin/internal/service"
)

// Runner wires the Postgres session store into a SessionReaper and runs it.
type Runner struct {
	reaper *service.SessionReaper
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.ReaperConfig
	Logger *slog.Logger

	// Optional dependency injection for testing
	Purger  ports.SessionPurger
	Metrics statsd.Sink
}

// NewRunner creates a new reaper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && opts.Purger == nil {
		return nil, errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	purger := opts.Purger
	if purger == nil {
		purger = postgres.NewSessionStore(opts.DB, postgres.SessionStoreOptions{})
	}

	reaper, err := service.NewSessionReaper(service.SessionReaperOptions{
		Purger:   purger,
		Interval: opts.Config.Interval,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire session reaper: %w", err)
	}

	return &Runner{reaper: reaper, logger: opts.Logger}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting session reaper runner")
	return r.reaper.Run(ctx)
}
