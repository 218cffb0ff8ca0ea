package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/taskdeck/tracker/store"
)

// AcquireSqlite opens a throwaway sqlite store on a temp directory and
// returns it alongside its cleanup function.
func AcquireSqlite(ctx context.Context, t interface {
	Fatal(...interface{})
	Log(...interface{})
}) (*store.Sqlite, func()) {
	dir, err := os.MkdirTemp("", "taskdeck-tests")
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.OpenSqlite(ctx, filepath.Join(dir, "tracker.db"))
	if err != nil {
		t.Fatal(err)
	}
	return st, func() {
		err := st.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
