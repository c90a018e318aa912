// Package database owns the connection pool and the SQL scripts that
// define the stored procedures.
package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globalhsr/hsrdb/internal/config"
)

//go:embed sql/*.sql
var embedded embed.FS

// Scripts returns the embedded SQL scripts rooted at their directory.
func Scripts() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		// The directory is fixed at build time.
		panic(err)
	}
	return sub
}

// ScriptsFS returns dir on disk when set, otherwise the embedded scripts.
func ScriptsFS(dir string) (fs.FS, error) {
	if dir == "" {
		return Scripts(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scripts dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scripts dir: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// Connect opens and verifies a connection pool sized from cfg.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
