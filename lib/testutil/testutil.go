package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	devenv "marketsnap/dev/env"
	"marketsnap/lib/telemetry"

	_ "modernc.org/sqlite"
)

type DBParams struct {
	// Name identifies the tests to telemetry, it defaults to "marketsnap"
	Name string
	// if unspecified, it will skip applying a schema
	Schema string
	// if unspecified, a fresh file in a temporary directory is used
	Path string
}

// OpenDB opens a sqlite database for a single test, it is closed when the test ends.
func OpenDB(t testing.TB, params DBParams) *sql.DB {
	t.Helper()

	name := params.Name
	if name == "" {
		name = "marketsnap"
	}
	t.Cleanup(telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name)))

	dbpath := filepath.Join(t.TempDir(), "test.db")
	if params.Path != "" {
		var err error
		dbpath, err = devenv.ResolvePath(params.Path)
		if err != nil {
			t.Fatal(err)
		}
	}
	sqlite, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	sqlite.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlite.Close()
	})

	if params.Schema == "" {
		return sqlite
	}
	_, err = sqlite.Exec(params.Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}
	return sqlite
}
