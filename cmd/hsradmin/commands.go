package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/globalhsr/hsrdb/internal/core"
	"github.com/globalhsr/hsrdb/internal/database"
)

var (
	scriptsDir   string
	confirmReset bool
)

// migrateCmd applies the embedded scripts through the migration table.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded procedure scripts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, pool *pgxpool.Pool, _ *core.Service) error {
			if err := database.Migrate(pool, database.Scripts()); err != nil {
				return err
			}
			version, _, _, err := database.Version(pool, database.Scripts())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scripts at version %d\n", version)
			return nil
		})
	},
}

// initCmd mirrors the /__init-db endpoint.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Apply scripts and create the tables if they are missing",
	Long: `Run every *.up.sql script in name order, then create and seed the
tables when they do not exist yet. Existing rows are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scripts, err := database.ScriptsFS(scriptsDir)
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, _ *pgxpool.Pool, svc *core.Service) error {
			applied, err := svc.ApplyScripts(ctx, scripts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized successfully (%d scripts applied).\n", len(applied))
			return nil
		})
	},
}

// resetCmd mirrors the /reset-database endpoint.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop, recreate and reseed every table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return errors.New("reset replaces every row with seed data; pass --yes to continue")
		}
		return withService(cmd, func(ctx context.Context, _ *pgxpool.Pool, svc *core.Service) error {
			if err := svc.ResetDatabase(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database reset to seed data.")
			return nil
		})
	},
}

// statusCmd reports whether the schema exists and which script version is recorded.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema and script version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, pool *pgxpool.Pool, svc *core.Service) error {
			exists, err := svc.TablesExist(ctx)
			if err != nil {
				return err
			}
			version, dirty, ok, err := database.Version(pool, database.Scripts())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tables:  %s\n", presence(exists))
			switch {
			case !ok:
				fmt.Fprintln(out, "scripts: not applied")
			case dirty:
				fmt.Fprintf(out, "scripts: version %d (dirty)\n", version)
			default:
				fmt.Fprintf(out, "scripts: version %d\n", version)
			}
			return nil
		})
	},
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
