package core

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/globalhsr/hsrdb/internal/logging"
)

// MarkerTable is the table whose presence means the schema has been created.
const MarkerTable = "countries"

const resetProcedure = "sp_ResetHSRDatabase"

// TablesExist reports whether the marker table is present.
func (s *Service) TablesExist(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT to_regclass('"+MarkerTable+"') IS NOT NULL").Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check marker table: %w", err)
	}
	return exists, nil
}

// EnsureInitialized creates and seeds the schema when the marker table is
// absent. It reports whether a reset ran; with tables present it is a no-op.
func (s *Service) EnsureInitialized(ctx context.Context) (bool, error) {
	exists, err := s.TablesExist(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	logging.FromContext(ctx).Info("tables missing, initializing database", "marker", MarkerTable)
	if err := s.ResetDatabase(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// ResetDatabase drops, recreates and reseeds every table.
func (s *Service) ResetDatabase(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, "CALL "+resetProcedure+"()"); err != nil {
		return fmt.Errorf("%s: %w", resetProcedure, err)
	}
	return nil
}

// ApplyScripts executes every *.up.sql file in fsys, in name order, each as
// one multi-statement script, then ensures the tables exist. The scripts
// only (re)define procedures, so re-running keeps existing rows.
func (s *Service) ApplyScripts(ctx context.Context, fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no *.up.sql scripts found")
	}
	sort.Strings(names)

	log := logging.FromContext(ctx)
	for _, name := range names {
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := s.db.Exec(ctx, string(body)); err != nil {
			return nil, fmt.Errorf("apply %s: %w", name, err)
		}
		log.Info("applied script", "script", name)
	}

	if _, err := s.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	return names, nil
}
