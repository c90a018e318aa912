package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/globalhsr/hsrdb/internal/config"
	"github.com/globalhsr/hsrdb/internal/core"
	_ "github.com/globalhsr/hsrdb/internal/core/entities" // Register all entities
	"github.com/globalhsr/hsrdb/internal/database"
	"github.com/globalhsr/hsrdb/internal/logging"
	"github.com/globalhsr/hsrdb/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"auto_init", cfg.Database.AutoInit,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"admin_enabled", cfg.Admin.InitKey != "",
	)

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("connected to database", "name", cfg.Database.DatabaseName())

	service := core.NewService(pool)
	slog.Info("entities registered", "count", core.Count())

	if cfg.Database.AutoInit {
		if err := database.Migrate(pool, database.Scripts()); err != nil {
			slog.Error("failed to apply procedure scripts", "error", err)
			os.Exit(1)
		}
		created, err := service.EnsureInitialized(ctx)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		slog.Info("database ready", "tables_created", created)
	}

	scripts, err := database.ScriptsFS(cfg.Admin.ScriptsDir)
	if err != nil {
		slog.Error("failed to open init scripts", "dir", cfg.Admin.ScriptsDir, "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg, scripts)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
