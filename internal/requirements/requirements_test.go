package requirements

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/masonry-cms/mason/internal/dburl"
)

func projectRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := "[project]\nname = \"Demo\"\n"
	if err := os.WriteFile(filepath.Join(dir, "masonry.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir
}

func TestCheckRoot(t *testing.T) {
	results := CheckRoot(projectRoot(t))
	if len(results) != 1 || results[0].Status != StatusOK {
		t.Fatalf("results = %+v", results)
	}

	broken := t.TempDir()
	if err := os.WriteFile(filepath.Join(broken, "masonry.toml"), []byte("not [ toml"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	results = CheckRoot(broken)
	if len(results) != 1 || results[0].Status != StatusFail {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Recommendation == "" {
		t.Fatal("failure without recommendation")
	}
}

func TestCheckSitesCreatesDir(t *testing.T) {
	root := projectRoot(t)
	results := CheckSites(root)
	if len(results) != 1 || results[0].Status != StatusOK {
		t.Fatalf("results = %+v", results)
	}
	info, err := os.Stat(filepath.Join(root, "sites"))
	if err != nil || !info.IsDir() {
		t.Fatalf("sites dir missing: %v", err)
	}
}

func TestCheckDriver(t *testing.T) {
	results := CheckDriver(&dburl.Conn{Driver: "mysql"})
	if results[0].Status != StatusOK {
		t.Fatalf("results = %+v", results)
	}
	results = CheckDriver(&dburl.Conn{Driver: "oracle"})
	if results[0].Status != StatusFail {
		t.Fatalf("results = %+v", results)
	}
}

func TestCheckDatabase(t *testing.T) {
	conn := &dburl.Conn{
		Driver: "sqlite",
		Name:   filepath.Join(t.TempDir(), "files", "site.db"),
	}
	results := CheckDatabase(context.Background(), conn)
	if results[0].Status != StatusOK {
		t.Fatalf("results = %+v", results)
	}

	original := databaseExistsFunc
	databaseExistsFunc = func(ctx context.Context, conn *dburl.Conn) (bool, error) {
		return false, errors.New("connection refused")
	}
	defer func() { databaseExistsFunc = original }()

	results = CheckDatabase(context.Background(), &dburl.Conn{Driver: "mysql", Host: "db", Port: 3306, Name: "demo"})
	if results[0].Status != StatusFail {
		t.Fatalf("results = %+v", results)
	}
}

func TestCheckSettings(t *testing.T) {
	root := projectRoot(t)
	if results := CheckSettings(root, "default"); results != nil {
		t.Fatalf("missing settings should produce no results, got %+v", results)
	}

	siteDir := filepath.Join(root, "sites", "default")
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(siteDir, "settings.toml")
	if err := os.WriteFile(path, []byte("[site]\n"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	results := CheckSettings(root, "default")
	if len(results) != 1 || results[0].Status != StatusOK {
		t.Fatalf("results = %+v", results)
	}

	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	results = CheckSettings(root, "default")
	if len(results) != 1 || results[0].Status != StatusFail {
		t.Fatalf("results = %+v", results)
	}
}

func TestCheckConfigDir(t *testing.T) {
	dir := t.TempDir()
	results := CheckConfigDir(dir)
	if results[0].Status != StatusOK {
		t.Fatalf("results = %+v", results)
	}
	results = CheckConfigDir(filepath.Join(dir, "missing"))
	if results[0].Status != StatusFail {
		t.Fatalf("results = %+v", results)
	}
}

func TestCheckAll(t *testing.T) {
	root := projectRoot(t)
	conn := &dburl.Conn{
		Driver: "sqlite",
		Name:   filepath.Join(root, "sites", "default", "files", ".ht.sqlite"),
	}
	results := Check(context.Background(), Params{Root: root, Subdir: "default", Conn: conn})
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if HasFailure(results) {
		t.Fatalf("unexpected failure: %+v", results)
	}
}

func TestHasFailure(t *testing.T) {
	results := []Result{{Status: StatusOK}, {Status: StatusWarn}}
	if HasFailure(results) {
		t.Fatal("warn counted as failure")
	}
	results = append(results, Result{Status: StatusFail})
	if !HasFailure(results) {
		t.Fatal("failure not detected")
	}
}
