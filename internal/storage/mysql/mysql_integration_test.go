//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/rakshitsawarn/brandsight/internal/domain"
	mysqlrepo "github.com/rakshitsawarn/brandsight/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func TestRepo_MySQL_SaveAndList(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=brandsight",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "brandsight")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange: two runs for one brand, one for another
	payload := func(total int) []byte {
		b, _ := json.Marshal(domain.Report{
			Success:              true,
			UID:                  "brand-1",
			TotalReviewsAnalyzed: total,
		})
		return b
	}
	first := domain.StoredReport{ID: uuid.NewString(), UID: "brand-1", Title: "Notely", Payload: payload(3)}
	if err := repo.SaveReport(ctx, first); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	// a later run for the same brand; spacing keeps created_at distinct
	time.Sleep(1100 * time.Millisecond)
	second := domain.StoredReport{ID: uuid.NewString(), UID: "brand-1", Title: "Notely", Payload: payload(5)}
	if err := repo.SaveReport(ctx, second); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	other := domain.StoredReport{ID: uuid.NewString(), UID: "brand-2", Title: "Other", Payload: payload(1)}
	if err := repo.SaveReport(ctx, other); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	// Assert: newest first, scoped to the uid
	got, err := repo.ListReports(ctx, "brand-1", 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reports for brand-1, got %d", len(got))
	}
	if got[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", got)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not scanned: %+v", got[0])
	}

	var stored domain.Report
	if err := json.Unmarshal(got[0].Payload, &stored); err != nil {
		t.Fatalf("payload round trip: %v", err)
	}
	if stored.TotalReviewsAnalyzed != 5 {
		t.Fatalf("unexpected payload: %+v", stored)
	}

	// limit applies
	got, err = repo.ListReports(ctx, "brand-1", 1)
	if err != nil {
		t.Fatalf("ListReports limit: %v", err)
	}
	if len(got) != 1 || got[0].ID != second.ID {
		t.Fatalf("limit 1 must return only the newest: %+v", got)
	}
}
