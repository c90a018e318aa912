//go:build integration

package core_test

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/globalhsr/hsrdb/internal/core"
	"github.com/globalhsr/hsrdb/internal/database"
)

// newIntegrationService boots Postgres, installs the procedures and seeds
// the schema. Run with: go test -tags integration ./internal/core/...
func newIntegrationService(t *testing.T) (*core.Service, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("hsr"),
		tcpostgres.WithUsername("hsr"),
		tcpostgres.WithPassword("hsr"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(pool, database.Scripts()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := core.NewService(pool)
	ran, err := svc.EnsureInitialized(ctx)
	if err != nil {
		t.Fatalf("EnsureInitialized: %v", err)
	}
	if !ran {
		t.Fatal("expected first EnsureInitialized to seed the schema")
	}
	return svc, pool
}

func execForm(t *testing.T, svc *core.Service, entity string, op core.Op, form url.Values) error {
	t.Helper()
	def, ok := core.Get(entity)
	if !ok {
		t.Fatalf("unknown entity %s", entity)
	}
	cmd, err := core.BuildCommand(def, op, form)
	if err != nil {
		return err
	}
	return svc.Execute(context.Background(), cmd)
}

func findRow(res *core.ListResult, cell int, value string) (core.Row, bool) {
	for _, r := range res.Rows {
		if r.Cells[cell] == value {
			return r, true
		}
	}
	return core.Row{}, false
}

func TestIntegration(t *testing.T) {
	svc, pool := newIntegrationService(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	t.Run("round trip", func(t *testing.T) {
		err := execForm(t, svc, "countries", core.OpCreate, url.Values{
			"countryName": {"Testland"}, "continent": {"Europe"}, "populationMillions": {"1.25"},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		res, err := svc.List(ctx, "countries", "")
		if err != nil {
			t.Fatal(err)
		}
		row, ok := findRow(res, 1, "Testland")
		if !ok {
			t.Fatal("created country not listed")
		}
		for i := 1; i < len(res.Rows); i++ {
			prev, _ := strconv.Atoi(res.Rows[i-1].Key)
			cur, _ := strconv.Atoi(res.Rows[i].Key)
			if prev >= cur {
				t.Errorf("rows not ordered by key: %d before %d", prev, cur)
			}
		}

		res, err = svc.List(ctx, "countries", row.Key)
		if err != nil {
			t.Fatal(err)
		}
		if res.Editing["populationMillions"] != "1.25" {
			t.Errorf("edit record = %v", res.Editing)
		}

		err = execForm(t, svc, "countries", core.OpUpdate, url.Values{
			"update_countryID": {row.Key}, "update_countryName": {"Testland"},
			"update_continent": {"Asia"}, "update_populationMillions": {"2"},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		res, err = svc.List(ctx, "countries", row.Key)
		if err != nil {
			t.Fatal(err)
		}
		if res.Editing["continent"] != "Asia" || res.Editing["populationMillions"] != "2" {
			t.Errorf("stale record after update: %v", res.Editing)
		}
	})

	t.Run("duplicate create", func(t *testing.T) {
		var before int
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM countries").Scan(&before); err != nil {
			t.Fatal(err)
		}

		err := execForm(t, svc, "countries", core.OpCreate, url.Values{
			"countryName": {"Japan"}, "continent": {"Asia"}, "populationMillions": {"1"},
		})
		if got := core.ErrorFlag(core.OpCreate, err); got != "duplicate-create" {
			t.Errorf("flag = %q (err %v), want duplicate-create", got, err)
		}

		var after int
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM countries").Scan(&after); err != nil {
			t.Fatal(err)
		}
		if before != after {
			t.Errorf("row count changed from %d to %d", before, after)
		}
	})

	t.Run("delete missing", func(t *testing.T) {
		err := execForm(t, svc, "countries", core.OpDelete, url.Values{"delete_countryID": {"99999"}})
		if got := core.ErrorFlag(core.OpDelete, err); got != "delete-failed" {
			t.Errorf("flag = %q (err %v), want delete-failed", got, err)
		}
		if core.Classify(err) != core.ReasonNotFound {
			t.Errorf("reason = %q, want not-found", core.Classify(err))
		}
	})

	t.Run("line station delete from delimited key", func(t *testing.T) {
		if err := execForm(t, svc, "lineStations", core.OpDelete, url.Values{"mapping": {"3,6"}}); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var n int
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM lineStations WHERE lineID = 3 AND stationID = 6").Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 0 {
			t.Error("mapping 3,6 still present")
		}
	})

	t.Run("optional values become null", func(t *testing.T) {
		err := execForm(t, svc, "projects", core.OpCreate, url.Values{
			"projectName": {"Open Ended"}, "status": {"Planned"}, "startYear": {"2030"}, "endYear": {""},
		})
		if err != nil {
			t.Fatal(err)
		}
		var isNull bool
		if err := pool.QueryRow(ctx, "SELECT endYear IS NULL FROM projects WHERE projectName = 'Open Ended'").Scan(&isNull); err != nil {
			t.Fatal(err)
		}
		if !isNull {
			t.Error("empty end year stored as non-null")
		}
	})

	t.Run("concurrent creates", func(t *testing.T) {
		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = execForm(t, svc, "stations", core.OpCreate, url.Values{
					"stationName": {fmt.Sprintf("Concurrent %d", i)}, "city": {"Testville"}, "countryID": {"1"},
				})
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Errorf("create %d: %v", i, err)
			}
		}
		var count int
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM stations WHERE city = 'Testville'").Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != n {
			t.Errorf("got %d stations, want %d", count, n)
		}
	})

	t.Run("reinitializing keeps data", func(t *testing.T) {
		if _, err := svc.ApplyScripts(ctx, database.Scripts()); err != nil {
			t.Fatalf("ApplyScripts: %v", err)
		}
		res, err := svc.List(ctx, "countries", "")
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := findRow(res, 1, "Testland"); !ok {
			t.Error("data lost after re-running scripts")
		}
	})
}
