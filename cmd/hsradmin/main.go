// Command hsradmin applies the procedure scripts, creates or resets the
// schema, and reports the database state without starting the web server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/globalhsr/hsrdb/internal/config"
	"github.com/globalhsr/hsrdb/internal/core"
	"github.com/globalhsr/hsrdb/internal/database"
	"github.com/globalhsr/hsrdb/internal/logging"
)

var (
	envFile string
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hsradmin",
	Short: "Administer the Global HSR database",
	Long: `Administrative tasks for the Global HSR database.

Available subcommands:
  migrate - Apply the embedded procedure scripts
  init    - Apply scripts and create the tables if they are missing
  reset   - Drop, recreate and reseed every table
  status  - Show schema and script version`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	initCmd.Flags().StringVar(&scriptsDir, "scripts", "", "Directory of *.up.sql scripts (default: embedded scripts)")
	resetCmd.Flags().BoolVar(&confirmReset, "yes", false, "Confirm that all rows will be replaced by seed data")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect loads configuration and opens the pool for one command.
func connect(ctx context.Context) (*pgxpool.Pool, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return pool, cfg, nil
}

// withService runs fn against a connected service, closing the pool afterwards.
func withService(cmd *cobra.Command, fn func(ctx context.Context, pool *pgxpool.Pool, svc *core.Service) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	pool, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, pool, core.NewService(pool))
}
