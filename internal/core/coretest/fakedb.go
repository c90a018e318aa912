// Package coretest provides an in-memory core.DBTX for tests that must not
// reach a database.
package coretest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Call records one statement sent through the gateway.
type Call struct {
	SQL  string
	Args []any
}

// DB is a scriptable gateway. Queries are answered by the first registered
// result whose SQL fragment is contained in the statement; Exec calls are
// recorded and answered by ExecFunc.
// It is safe for concurrent use.
type DB struct {
	mu      sync.Mutex
	results []result
	execs   []Call
	queries []Call

	// ExecFunc, when set, decides the outcome of every Exec.
	ExecFunc func(sql string, args []any) error
}

type result struct {
	fragment string
	rows     func(args []any) ([][]any, error)
}

// New returns an empty fake gateway.
func New() *DB {
	return &DB{}
}

// OnQuery answers statements containing fragment with rows.
func (db *DB) OnQuery(fragment string, rows ...[]any) *DB {
	return db.OnQueryFunc(fragment, func([]any) ([][]any, error) { return rows, nil })
}

// OnQueryError fails statements containing fragment with err.
func (db *DB) OnQueryError(fragment string, err error) *DB {
	return db.OnQueryFunc(fragment, func([]any) ([][]any, error) { return nil, err })
}

// OnQueryFunc answers statements containing fragment by calling fn with the bind arguments.
func (db *DB) OnQueryFunc(fragment string, fn func(args []any) ([][]any, error)) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.results = append(db.results, result{fragment: normalize(fragment), rows: fn})
	return db
}

// Execs returns the recorded Exec calls in order.
func (db *DB) Execs() []Call {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]Call(nil), db.execs...)
}

// Queries returns the recorded Query and QueryRow calls in order.
func (db *DB) Queries() []Call {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]Call(nil), db.queries...)
}

// Exec records the call.
func (db *DB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	db.mu.Lock()
	db.execs = append(db.execs, Call{SQL: sql, Args: args})
	fn := db.ExecFunc
	db.mu.Unlock()

	if fn != nil {
		if err := fn(sql, args); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	return pgconn.NewCommandTag("CALL"), nil
}

// Query answers from the registered results.
func (db *DB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	rows, err := db.lookup(sql, args)
	if err != nil {
		return nil, err
	}
	return &Rows{data: rows}, nil
}

// QueryRow answers with the first row of the registered result.
func (db *DB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	rows, err := db.lookup(sql, args)
	if err != nil {
		return Row{err: err}
	}
	if len(rows) == 0 {
		return Row{err: pgx.ErrNoRows}
	}
	return Row{values: rows[0]}
}

func (db *DB) lookup(sql string, args []any) ([][]any, error) {
	db.mu.Lock()
	db.queries = append(db.queries, Call{SQL: sql, Args: args})
	results := db.results
	db.mu.Unlock()

	stmt := normalize(sql)
	for _, r := range results {
		if strings.Contains(stmt, r.fragment) {
			return r.rows(args)
		}
	}
	return nil, fmt.Errorf("coretest: no result registered for %q", stmt)
}

// normalize collapses whitespace so fragments match across indentation.
func normalize(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

// Rows is an in-memory pgx.Rows.
type Rows struct {
	data   [][]any
	pos    int
	closed bool
}

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Err() error                                   { return nil }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

func (r *Rows) Next() bool {
	if r.closed || r.pos >= len(r.data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Values() ([]any, error) {
	if r.pos == 0 || r.pos > len(r.data) {
		return nil, errors.New("coretest: Values called without a current row")
	}
	return r.data[r.pos-1], nil
}

func (r *Rows) Scan(dest ...any) error {
	vals, err := r.Values()
	if err != nil {
		return err
	}
	return scanInto(vals, dest)
}

// Row is an in-memory pgx.Row.
type Row struct {
	values []any
	err    error
}

func (r Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

func scanInto(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("coretest: scan %d values into %d targets", len(vals), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("coretest: scan target %d is not a pointer", i)
		}
		sv := reflect.ValueOf(vals[i])
		target := dv.Elem()
		if !sv.IsValid() {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		if !sv.Type().AssignableTo(target.Type()) {
			if !sv.Type().ConvertibleTo(target.Type()) {
				return fmt.Errorf("coretest: cannot scan %T into %s", vals[i], target.Type())
			}
			sv = sv.Convert(target.Type())
		}
		target.Set(sv)
	}
	return nil
}
