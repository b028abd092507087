package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/dburl"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	conn := &dburl.Conn{
		Driver: "sqlite",
		Name:   filepath.Join(t.TempDir(), "site.db"),
		Prefix: "ms_",
	}
	db, err := database.Open(ctx, conn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.ExecContext(ctx, "CREATE TABLE ms_state (name TEXT PRIMARY KEY, value TEXT)"); err != nil {
		t.Fatalf("create state table: %v", err)
	}
	return NewStore(db)
}

func TestGetMissing(t *testing.T) {
	store := testStore(t)
	value, err := store.Get(context.Background(), KeySchemaVersion)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if value != "" {
		t.Fatalf("value = %q, want empty", value)
	}
}

func TestSetAndReplace(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	if err := store.Set(ctx, KeyInstallProfile, "standard"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, err := store.Get(ctx, KeyInstallProfile)
	if err != nil || value != "standard" {
		t.Fatalf("Get = %q, %v", value, err)
	}

	if err := store.Set(ctx, KeyInstallProfile, "minimal"); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	value, err = store.Get(ctx, KeyInstallProfile)
	if err != nil || value != "minimal" {
		t.Fatalf("Get after replace = %q, %v", value, err)
	}
}

func TestSetAll(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	err := store.SetAll(ctx, map[string]string{
		KeySchemaVersion:  "11000",
		KeyInstallProfile: "standard",
		KeyInstallTime:    "2026-08-21T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("SetAll: %v", err)
	}

	for key, want := range map[string]string{
		KeySchemaVersion:  "11000",
		KeyInstallProfile: "standard",
		KeyInstallTime:    "2026-08-21T10:00:00Z",
	} {
		value, err := store.Get(ctx, key)
		if err != nil || value != want {
			t.Fatalf("Get(%s) = %q, %v", key, value, err)
		}
	}
}
