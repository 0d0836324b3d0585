package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/target/attractions-admin/internal/bootstrap"
	"github.com/target/attractions-admin/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

type migrateOptions struct {
	Timeout time.Duration
	Status  bool
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{}
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)
	fs.BoolVar(&opts.Status, "status", false, "List migrations and whether they are applied, without applying any")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	if opts.Status {
		statuses, listErr := migrate.List(ctx, db)
		if listErr != nil {
			return fmt.Errorf("list migrations: %w", listErr)
		}
		return printMigrationStatus(cmdCtx, statuses)
	}

	cmdCtx.Logger.Info("running database migrations")
	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}
	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func printMigrationStatus(cmdCtx *commandContext, statuses []migrate.Status) error {
	tw := tabwriter.NewWriter(cmdCtx.Stdout, 0, 4, 2, ' ', 0)
	if err := writef(tw, "VERSION\tSTATUS\n"); err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		if err := writef(tw, "%s\t%s\n", s.Version, state); err != nil {
			return err
		}
	}
	return tw.Flush()
}
