// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

const dialect = "postgres"

// Seams over goose so the runner can be exercised without a database.
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseDownContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.DownContext(ctx, db, dir, opts...)
	}
	gooseDownToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
		return goose.DownToContext(ctx, db, dir, version, opts...)
	}
	gooseStatusContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.StatusContext(ctx, db, dir, opts...)
	}
)

// Runner applies the embedded migrations to a database.
type Runner struct {
	db  *sql.DB
	log *slog.Logger
}

// NewRunner returns a Runner for db.
func NewRunner(db *sql.DB, logger *slog.Logger) (*Runner, error) {
	if db == nil {
		return nil, errors.New("nil database provided")
	}
	if logger == nil {
		logger = slog.Default()
	}

	goose.SetBaseFS(FS)
	if err := goose.SetDialect(dialect); err != nil {
		return nil, errors.Wrap(err, "configure goose")
	}

	return &Runner{db: db, log: logger}, nil
}

// Up applies all pending migrations.
func (r *Runner) Up(ctx context.Context) error {
	r.log.InfoContext(ctx, "Applying migrations")
	if err := gooseUpContext(ctx, r.db, "."); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	r.log.InfoContext(ctx, "Migrations applied")

	return nil
}

// Status prints applied and pending migrations through goose's logger.
func (r *Runner) Status(ctx context.Context) error {
	if err := gooseStatusContext(ctx, r.db, "."); err != nil {
		return errors.Wrap(err, "migration status")
	}

	return nil
}

// Down rolls back the latest migration, or every migration above targetVersion when it is positive.
func (r *Runner) Down(ctx context.Context, targetVersion int64) error {
	if targetVersion > 0 {
		r.log.InfoContext(ctx, "Rolling back migrations", slog.Int64("target", targetVersion))
		if err := gooseDownToContext(ctx, r.db, ".", targetVersion); err != nil {
			return errors.Wrapf(err, "rollback to version %d", targetVersion)
		}

		return nil
	}

	r.log.InfoContext(ctx, "Rolling back latest migration")
	if err := gooseDownContext(ctx, r.db, "."); err != nil {
		return errors.Wrap(err, "rollback latest migration")
	}

	return nil
}
