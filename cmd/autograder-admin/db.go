package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/softwareconstruction240/autograder/internal/bootstrap"
	"github.com/softwareconstruction240/autograder/internal/data"
	"github.com/softwareconstruction240/autograder/internal/devseed"
	"github.com/softwareconstruction240/autograder/internal/migrate"
)

type migrateOptions struct {
	Timeout time.Duration
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := newFlagSet("migrate")
	opts := migrateOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for migrations to complete")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	fs := newFlagSet("db-seed")
	opts := dbSeedOptions{}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration for migrations and seeding")
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "Allow seeding a database host that does not look local")

	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}
	if opts.Timeout <= 0 {
		return dbSeedOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.InfoContext(ctx, "running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}
		cmdCtx.Logger.InfoContext(ctx, "migrations completed successfully")
		return nil
	})
}

func runMigrateStatus(cmdCtx *commandContext, _ []string) error {
	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		status, err := migrate.Status(ctx, db)
		if err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
		return printMigrationStatus(cmdCtx.Out, status)
	})
}

func printMigrationStatus(w io.Writer, status []migrate.Migration) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "VERSION\tSTATUS\tAPPLIED AT\n"); err != nil {
		return err
	}
	pending := 0
	for _, m := range status {
		state, at := "pending", "-"
		if m.Applied {
			state = "applied"
			if m.AppliedAt != nil {
				at = m.AppliedAt.UTC().Format(time.RFC3339)
			}
		} else {
			pending++
		}
		if err := writef(tw, "%s\t%s\t%s\n", m.Version, state, at); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\n%d migration(s), %d pending\n", len(status), pending)
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}
	if host := cmdCtx.Config.Postgres.Host; isLikelyRemoteHost(host) && !opts.AllowRemote {
		return fmt.Errorf(
			"refusing to seed potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}
		res, seedErr := devseed.Run(ctx, data.NewUserRepo(db), devseed.DefaultUsers(), cmdCtx.Logger)
		if printErr := writef(cmdCtx.Out, "created %d user(s), %d already present, %d repo(s) assigned\n",
			res.Created, res.Existing, res.Repos); printErr != nil {
			return errors.Join(seedErr, printErr)
		}
		return seedErr
	})
}
