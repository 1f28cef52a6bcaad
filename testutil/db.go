package testutil

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/storage/database"
)

var (
	once  sync.Once
	db    *sqlx.DB
	conf  *core.Config
	dbErr error
)

// tables in an order TRUNCATE ... CASCADE is happy with.
var tables = []string{
	"stakeholder_plo_mappings", "stakeholder_surveys", "stakeholders", "plo_scores",
	"alignment_mlo_checks", "alignment_plo_checks", "alignment_rows",
	"clo_mlo", "clo_plo", "clo_kas", "mlo_kas", "plo_kas", "kas_items", "clos", "mlos", "plos",
	"semester_subjects", "subjects", "semesters", "study_plans",
	"major_groups", "majors", "programs", "courses", "users",
}

// Config returns the TEST configuration.
func Config() *core.Config {
	if os.Getenv("ENV") == "" {
		_ = os.Setenv("ENV", "TEST")
	}
	return core.NewConfig()
}

// OpenDB opens & migrates the TEST database once per test binary.
func OpenDB() (*sqlx.DB, *core.Config, error) {
	once.Do(func() {
		conf = Config()
		db, dbErr = database.Connect(conf)
		if dbErr != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if dbErr = db.PingContext(ctx); dbErr != nil {
			_ = db.Close()
			dbErr = errors.Wrap(dbErr, "pinging test database")
			return
		}
		dbErr = database.Migrate(db)
	})
	return db, conf, dbErr
}

// PrepareDB returns the migrated TEST database, skipping t when it is unreachable.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	tdb, _, err := OpenDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	ResetDB(t, tdb)
	return tdb
}

func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	q := "TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.Exec(q); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
