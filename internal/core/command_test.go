package core_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/globalhsr/hsrdb/internal/core"
	"github.com/globalhsr/hsrdb/internal/core/coretest"
	_ "github.com/globalhsr/hsrdb/internal/core/entities"
)

func mustEntity(t *testing.T, key string) core.EntityDefinition {
	t.Helper()
	def, ok := core.Get(key)
	if !ok {
		t.Fatalf("entity %q not registered", key)
	}
	return def
}

func int4(v int32) pgtype.Int4 { return pgtype.Int4{Int32: v, Valid: true} }

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name     string
		entity   string
		op       core.Op
		form     url.Values
		wantArgs []any
		wantErr  error
	}{
		{
			name:   "create country",
			entity: "countries",
			op:     core.OpCreate,
			form: url.Values{
				"countryName":        {"Japan"},
				"continent":          {"Asia"},
				"populationMillions": {"124.5"},
			},
			wantArgs: []any{"Japan", "Asia", pgtype.Float8{Float64: 124.5, Valid: true}},
		},
		{
			name:   "update operator uses update_ key",
			entity: "operators",
			op:     core.OpUpdate,
			form: url.Values{
				"update_operatorID":   {"4"},
				"update_operatorName": {"JR Central"},
				"update_foundedYear":  {"1987"},
				"update_countryID":    {"1"},
			},
			wantArgs: []any{int64(4), "JR Central", int4(1987), int4(1)},
		},
		{
			name:     "delete rail line",
			entity:   "railLines",
			op:       core.OpDelete,
			form:     url.Values{"delete_lineID": {"9"}},
			wantArgs: []any{int64(9)},
		},
		{
			name:   "create project with empty end year",
			entity: "projects",
			op:     core.OpCreate,
			form: url.Values{
				"projectName": {"California HSR"},
				"status":      {"Under Construction"},
				"startYear":   {"2015"},
				"endYear":     {""},
			},
			wantArgs: []any{"California HSR", "Under Construction", int4(2015), pgtype.Int4{}},
		},
		{
			name:   "create line station with empty stop order",
			entity: "lineStations",
			op:     core.OpCreate,
			form: url.Values{
				"lineID":    {"3"},
				"stationID": {"12"},
			},
			wantArgs: []any{int4(3), int4(12), pgtype.Int4{}},
		},
		{
			name:     "delete line station from legacy mapping",
			entity:   "lineStations",
			op:       core.OpDelete,
			form:     url.Values{"mapping": {"3,12"}},
			wantArgs: []any{int64(3), int64(12)},
		},
		{
			name:   "delete line station from per-column fields",
			entity: "lineStations",
			op:     core.OpDelete,
			form: url.Values{
				"delete_lineID":    {"3"},
				"delete_stationID": {"12"},
			},
			wantArgs: []any{int64(3), int64(12)},
		},
		{
			name:   "update line station moves mapping",
			entity: "lineStations",
			op:     core.OpUpdate,
			form: url.Values{
				"current_lineID":    {"3"},
				"current_stationID": {"12"},
				"update_lineID":     {"3"},
				"update_stationID":  {"14"},
				"update_stopOrder":  {"2"},
			},
			wantArgs: []any{int64(3), int64(12), int4(3), int4(14), int4(2)},
		},
		{
			name:     "delete project line from legacy hyphen pair",
			entity:   "projectLines",
			op:       core.OpDelete,
			form:     url.Values{"lineID_projectID_pair": {"2-5"}},
			wantArgs: []any{int64(2), int64(5)},
		},
		{
			name:   "update project line from legacy current mapping",
			entity: "projectLines",
			op:     core.OpUpdate,
			form: url.Values{
				"currentMapping":   {"2-5"},
				"update_projectID": {"2"},
				"update_lineID":    {"6"},
			},
			wantArgs: []any{int64(2), int64(5), int4(2), int4(6)},
		},
		{
			name:   "update project line from the original form",
			entity: "projectLines",
			op:     core.OpUpdate,
			form: url.Values{
				"currentMapping": {"4-2"},
				"new_projectID":  {"1"},
				"new_lineID":     {"3"},
			},
			wantArgs: []any{int64(4), int64(2), int4(1), int4(3)},
		},
		{
			name:   "update_ values win over new_ values",
			entity: "projectLines",
			op:     core.OpUpdate,
			form: url.Values{
				"current_projectID": {"4"},
				"current_lineID":    {"2"},
				"update_projectID":  {"5"},
				"new_projectID":     {"1"},
				"update_lineID":     {"3"},
			},
			wantArgs: []any{int64(4), int64(2), int4(5), int4(3)},
		},
		{
			name:   "new_ values are not read on create",
			entity: "projectLines",
			op:     core.OpCreate,
			form: url.Values{
				"new_projectID": {"1"},
				"new_lineID":    {"3"},
			},
			wantErr: core.ErrInvalidInput,
		},
		{
			name:    "malformed composite key",
			entity:  "lineStations",
			op:      core.OpDelete,
			form:    url.Values{"mapping": {"3"}},
			wantErr: core.ErrInvalidKey,
		},
		{
			name:    "unparsable number",
			entity:  "railLines",
			op:      core.OpCreate,
			form:    url.Values{"lineName": {"X"}, "maxSpeed": {"fast"}, "lengthKM": {"1"}, "operatorID": {"1"}},
			wantErr: core.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := mustEntity(t, tt.entity)
			cmd, err := core.BuildCommand(def, tt.op, tt.form)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BuildCommand() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCommand() error: %v", err)
			}
			if cmd.Entity != tt.entity || cmd.Op != tt.op {
				t.Errorf("command = %s %s, want %s %s", cmd.Op, cmd.Entity, tt.op, tt.entity)
			}
			if diff := cmp.Diff(tt.wantArgs, cmd.Args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecute_LineStationDelete(t *testing.T) {
	db := coretest.New()
	svc := core.NewService(db)

	def := mustEntity(t, "lineStations")
	cmd, err := core.BuildCommand(def, core.OpDelete, url.Values{"mapping": {"3,12"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []coretest.Call{{
		SQL:  "CALL sp_DeleteLineStation($1, $2)",
		Args: []any{int64(3), int64(12)},
	}}
	if diff := cmp.Diff(want, db.Execs()); diff != "" {
		t.Errorf("exec mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_WrapsDriverError(t *testing.T) {
	db := coretest.New()
	db.ExecFunc = func(string, []any) error {
		return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	svc := core.NewService(db)

	cmd := core.Command{Entity: "countries", Op: core.OpCreate, Args: []any{"Japan", "Asia", pgtype.Float8{Float64: 1, Valid: true}}}
	err := svc.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := core.ErrorFlag(core.OpCreate, err); got != "duplicate-create" {
		t.Errorf("ErrorFlag() = %q, want duplicate-create", got)
	}
	if len(db.Execs()) != 1 {
		t.Errorf("expected exactly one attempt, got %d", len(db.Execs()))
	}
}

func TestExecute_RejectsWrongArity(t *testing.T) {
	db := coretest.New()
	svc := core.NewService(db)

	err := svc.Execute(context.Background(), core.Command{Entity: "lineStations", Op: core.OpDelete, Args: []any{int64(3)}})
	if !errors.Is(err, core.ErrArity) {
		t.Fatalf("Execute() error = %v, want ErrArity", err)
	}
	if n := len(db.Execs()); n != 0 {
		t.Errorf("no statement should be sent, got %d", n)
	}
}

func TestExecute_UnknownEntity(t *testing.T) {
	svc := core.NewService(coretest.New())
	err := svc.Execute(context.Background(), core.Command{Entity: "trains", Op: core.OpCreate})
	if !errors.Is(err, core.ErrUnknownEntity) {
		t.Fatalf("Execute() error = %v, want ErrUnknownEntity", err)
	}
}

func TestExecute_ConcurrentCreates(t *testing.T) {
	db := coretest.New()
	svc := core.NewService(db)
	def := mustEntity(t, "countries")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd, err := core.BuildCommand(def, core.OpCreate, url.Values{
				"countryName":        {fmt.Sprintf("Country %d", i)},
				"continent":          {"Europe"},
				"populationMillions": {"1"},
			})
			if err != nil {
				errs <- err
				return
			}
			errs <- svc.Execute(context.Background(), cmd)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent create failed: %v", err)
		}
	}

	seen := make(map[string]bool)
	for _, call := range db.Execs() {
		name := call.Args[0].(string)
		if seen[name] {
			t.Errorf("%s created twice", name)
		}
		seen[name] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct creates, want %d", len(seen), n)
	}
}
