package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bioauth/config"
	logs "bioauth/internal/infra/log"
	"bioauth/internal/infra/persistence/migrations"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help", "-h", "--help":
		printUsage()

		return nil
	case "up", "status", "down":
	default:
		printUsage()

		return errors.Errorf("unknown command: %s", cmd)
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	target := fs.Int64("to", 0, "Roll back every migration above this version (down only)")
	if err := fs.Parse(args); err != nil {
		return errors.WithStack(err)
	}

	runner, closeDB, err := openRunner()
	if err != nil {
		return err
	}
	defer closeDB()

	switch cmd {
	case "up":
		return runner.Up(ctx)
	case "status":
		return runner.Status(ctx)
	default:
		return runner.Down(ctx, *target)
	}
}

func openRunner() (*migrations.Runner, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Postgres == nil {
		return nil, nil, errors.New("postgres configuration is required")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return nil, nil, err
	}

	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	runner, err := migrations.NewRunner(sqlDB, logger)
	if err != nil {
		_ = sqlDB.Close()

		return nil, nil, err
	}

	return runner, func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", slog.Any("error", err))
		}
	}, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: migrate <command> [flags]

commands:
  up                apply all pending migrations
  status            list applied and pending migrations
  down [-to N]      roll back the latest migration, or every one above version N`)
}
