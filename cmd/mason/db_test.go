package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masonry-cms/mason/internal/messages"
)

func TestDBStatusCommand(t *testing.T) {
	root := installTestSite(t)

	out, _, err := runCLI(t, "", "db", "status", "--root", root)
	if err != nil {
		t.Fatalf("db status error: %v", err)
	}
	if !strings.Contains(out, "Connected to sqlite://") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "(3 site tables).") {
		t.Fatalf("expected 3 site tables, got %q", out)
	}
}

func TestDBStatusCommandDBURL(t *testing.T) {
	root := installTestSite(t)
	dbFile := filepath.Join(root, "sites", "default", "files", ".ht.sqlite")

	out, _, err := runCLI(t, "", "db", "status", "--db-url", "sqlite://"+dbFile)
	if err != nil {
		t.Fatalf("db status error: %v", err)
	}
	if !strings.Contains(out, "(3 site tables).") {
		t.Fatalf("expected 3 site tables, got %q", out)
	}
}

func TestDBDropCommandDeclined(t *testing.T) {
	root := installTestSite(t)

	_, errOut, err := runCLI(t, "n\n", "db", "drop", "--root", root)
	if err == nil || err.Error() != messages.DBDropAborted {
		t.Fatalf("expected aborted drop, got %v", err)
	}
	if !strings.Contains(errOut, `Drop 3 tables with prefix "ms_"`) {
		t.Fatalf("expected confirmation prompt, got %q", errOut)
	}

	out, _, err := runCLI(t, "", "db", "status", "--root", root)
	if err != nil {
		t.Fatalf("db status error: %v", err)
	}
	if !strings.Contains(out, "(3 site tables).") {
		t.Fatalf("tables should survive a declined drop, got %q", out)
	}
}

func TestDBDropCommandConfirmed(t *testing.T) {
	root := installTestSite(t)

	out, _, err := runCLI(t, "y\n", "db", "drop", "--root", root)
	if err != nil {
		t.Fatalf("db drop error: %v", err)
	}
	if !strings.Contains(out, "Dropped 3 tables from") {
		t.Fatalf("output = %q", out)
	}

	again, _, err := runCLI(t, "", "db", "drop", "--root", root, "--yes")
	if err != nil {
		t.Fatalf("second db drop error: %v", err)
	}
	if !strings.Contains(again, `No tables with prefix "ms_"`) {
		t.Fatalf("expected nothing to drop, got %q", again)
	}
}

func TestDBDropCommandAssumeYes(t *testing.T) {
	root := installTestSite(t)

	out, errOut, err := runCLI(t, "", "db", "drop", "--root", root, "--yes")
	if err != nil {
		t.Fatalf("db drop error: %v", err)
	}
	if !strings.Contains(out, "Dropped 3 tables from") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(errOut, "Drop 3 tables") {
		t.Fatalf("unexpected prompt with --yes: %q", errOut)
	}
}

func TestDBCreateCommand(t *testing.T) {
	quietInstall(t)
	dbFile := filepath.Join(t.TempDir(), "data", "site.sqlite")

	out, _, err := runCLI(t, "", "db", "create", "--db-url", "sqlite://"+dbFile)
	if err != nil {
		t.Fatalf("db create error: %v", err)
	}
	if !strings.Contains(out, fmt.Sprintf(messages.DBCreatedFmt, dbFile)) {
		t.Fatalf("output = %q", out)
	}
	if _, err := os.Stat(dbFile); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestDBCommandsNotInstalled(t *testing.T) {
	quietInstall(t)
	root := writeProject(t)

	_, _, err := runCLI(t, "", "db", "status", "--root", root)
	if err == nil || !strings.Contains(err.Error(), "is not installed") {
		t.Fatalf("expected not-installed error, got %v", err)
	}
}
