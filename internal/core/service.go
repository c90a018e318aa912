package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/globalhsr/hsrdb/internal/logging"
	"github.com/jackc/pgx/v5"
)

// Service provides the list queries and procedure calls behind every route.
// It keeps no per-request state; the gateway owns connection reuse.
type Service struct {
	db DBTX
}

// NewService creates a Service over the given gateway.
func NewService(db DBTX) *Service {
	return &Service{db: db}
}

// Row is one list-view row.
type Row struct {
	Key   string   // encoded key used by edit links and delete forms
	Cells []string // display values in Columns order
}

// Record maps key and field names to display strings for the edit form.
type Record map[string]string

// ListResult is everything the list view needs for one entity.
type ListResult struct {
	Entity  EntityDefinition
	Rows    []Row
	Options map[string][]Option // keyed by Lookup.Name

	// Editing is the record selected by ?edit=, or nil when none was
	// requested, the key was malformed, or no row matched.
	Editing Record
	EditKey Key
}

// List runs the entity's list query, its lookups, and the optional edit lookup.
func (s *Service) List(ctx context.Context, entity, edit string) (*ListResult, error) {
	def, ok := Get(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}

	rows, err := s.queryValues(ctx, def.ListSQL)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", def.Info.Key, err)
	}

	result := &ListResult{
		Entity:  def,
		Rows:    make([]Row, 0, len(rows)),
		Options: make(map[string][]Option, len(def.Lookups)),
	}

	for _, vals := range rows {
		if len(vals) != len(def.Columns) {
			return nil, fmt.Errorf("list %s: got %d columns, want %d", def.Info.Key, len(vals), len(def.Columns))
		}
		row := Row{Cells: make([]string, len(vals))}
		for i, v := range vals {
			row.Cells[i] = FormatCell(v)
		}
		row.Key = joinKey(row.Cells[:len(def.KeyFields)])
		result.Rows = append(result.Rows, row)
	}

	for _, lookup := range def.Lookups {
		opts, err := s.lookupOptions(ctx, lookup)
		if err != nil {
			return nil, fmt.Errorf("lookup %s for %s: %w", lookup.Name, def.Info.Key, err)
		}
		result.Options[lookup.Name] = opts
	}

	if edit != "" {
		key, err := ParseKeyString(edit, len(def.KeyFields))
		if err != nil {
			logging.FromContext(ctx).Debug("ignoring malformed edit key", "entity", def.Info.Key, "edit", edit, "error", err)
			return result, nil
		}
		rec, err := s.Lookup(ctx, def, key)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			result.Editing = rec
			result.EditKey = key
		}
	}

	return result, nil
}

// Lookup fetches one record by key. Returns nil, nil when no row matches.
func (s *Service) Lookup(ctx context.Context, def EntityDefinition, key Key) (Record, error) {
	if len(key) != len(def.KeyFields) {
		return nil, fmt.Errorf("%w: %s takes %d key parts, got %d", ErrInvalidKey, def.Info.Key, len(def.KeyFields), len(key))
	}

	rows, err := s.queryValues(ctx, def.EditSQL, key.Args()...)
	if err != nil {
		return nil, fmt.Errorf("lookup %s %s: %w", def.Info.Key, key, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(def.KeyFields)+len(def.Fields))
	names = append(names, def.KeyFields...)
	for _, f := range def.Fields {
		names = append(names, f.Name)
	}

	vals := rows[0]
	if len(vals) != len(names) {
		return nil, fmt.Errorf("lookup %s: got %d columns, want %d", def.Info.Key, len(vals), len(names))
	}

	rec := make(Record, len(names))
	for i, name := range names {
		rec[name] = FormatCell(vals[i])
	}
	return rec, nil
}

func (s *Service) lookupOptions(ctx context.Context, lookup Lookup) ([]Option, error) {
	rows, err := s.queryValues(ctx, lookup.SQL)
	if err != nil {
		return nil, err
	}

	opts := make([]Option, 0, len(rows))
	for _, vals := range rows {
		if len(vals) < 2 {
			return nil, errors.New("lookup query must return id and label")
		}
		opts = append(opts, Option{Value: FormatCell(vals[0]), Label: FormatCell(vals[1])})
	}
	return opts, nil
}

// queryValues runs a parameterized query and collects every row's decoded values.
func (s *Service) queryValues(ctx context.Context, sql string, args ...any) ([][]any, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]any, error) {
		return row.Values()
	})
}

// Ping checks that the gateway can reach the data store.
func (s *Service) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func joinKey(parts []string) string {
	return strings.Join(parts, keySeparator)
}
