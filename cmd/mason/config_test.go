package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masonry-cms/mason/internal/messages"
)

// syncDirFor returns the default sync directory of the default site.
func syncDirFor(root string) string {
	return filepath.Join(root, "sites", "default", "config", "sync")
}

// rewriteSyncFile replaces old with updated inside a sync directory file.
func rewriteSyncFile(t *testing.T, path string, old string, updated string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	replaced := strings.ReplaceAll(string(data), old, updated)
	if replaced == string(data) {
		t.Fatalf("%s does not contain %q:\n%s", path, old, data)
	}
	if err := os.WriteFile(path, []byte(replaced), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestConfigExportCommand(t *testing.T) {
	root := installTestSite(t)

	out, _, err := runCLI(t, "", "config", "export", "--root", root)
	if err != nil {
		t.Fatalf("config export error: %v", err)
	}
	want := fmt.Sprintf(messages.ConfigExportedFmt, 4, syncDirFor(root))
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
	for _, name := range []string{"system.site.yml", "core.extension.yml", "system.theme.yml", "content.settings.yml"} {
		if _, err := os.Stat(filepath.Join(syncDirFor(root), name)); err != nil {
			t.Fatalf("expected exported file %s: %v", name, err)
		}
	}
}

func TestConfigExportCommandCustomDir(t *testing.T) {
	root := installTestSite(t)
	dir := filepath.Join(t.TempDir(), "backup")

	out, _, err := runCLI(t, "", "config", "export", "--root", root, "--dir", dir)
	if err != nil {
		t.Fatalf("config export error: %v", err)
	}
	if !strings.Contains(out, dir) {
		t.Fatalf("output does not name %s: %q", dir, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "system.site.yml")); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
}

func TestConfigImportCommandNoChanges(t *testing.T) {
	root := installTestSite(t)
	if _, _, err := runCLI(t, "", "config", "export", "--root", root); err != nil {
		t.Fatalf("config export error: %v", err)
	}

	out, _, err := runCLI(t, "", "config", "import", "--root", root)
	if err != nil {
		t.Fatalf("config import error: %v", err)
	}
	if out != messages.ConfigNoChanges {
		t.Fatalf("output = %q, want %q", out, messages.ConfigNoChanges)
	}
}

func TestConfigImportCommandPreview(t *testing.T) {
	root := installTestSite(t)
	if _, _, err := runCLI(t, "", "config", "export", "--root", root); err != nil {
		t.Fatalf("config export error: %v", err)
	}
	sitePath := filepath.Join(syncDirFor(root), "system.site.yml")
	rewriteSyncFile(t, sitePath, "name: Intranet", "name: Renamed")

	out, _, err := runCLI(t, "", "config", "import", "--root", root, "--preview")
	if err != nil {
		t.Fatalf("config import --preview error: %v", err)
	}
	for _, want := range []string{"-name: Intranet", "+name: Renamed", "Importing 0 new, 1 changed, 0 removed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("preview missing %q:\n%s", want, out)
		}
	}

	// Preview must not touch the store; the same plan shows up again.
	again, _, err := runCLI(t, "", "config", "import", "--root", root, "--preview")
	if err != nil {
		t.Fatalf("second preview error: %v", err)
	}
	if !strings.Contains(again, "+name: Renamed") {
		t.Fatalf("expected unchanged plan, got:\n%s", again)
	}
}

func TestConfigImportCommandPromptDeclined(t *testing.T) {
	root := installTestSite(t)
	if _, _, err := runCLI(t, "", "config", "export", "--root", root); err != nil {
		t.Fatalf("config export error: %v", err)
	}
	rewriteSyncFile(t, filepath.Join(syncDirFor(root), "system.site.yml"), "name: Intranet", "name: Renamed")

	_, errOut, err := runCLI(t, "n\n", "config", "import", "--root", root)
	if err == nil || err.Error() != messages.ConfigImportAborted {
		t.Fatalf("expected aborted import, got %v", err)
	}
	if !strings.Contains(errOut, messages.ConfigImportPrompt) {
		t.Fatalf("expected confirmation prompt on stderr, got %q", errOut)
	}
}

func TestConfigImportCommandPromptAccepted(t *testing.T) {
	root := installTestSite(t)
	if _, _, err := runCLI(t, "", "config", "export", "--root", root); err != nil {
		t.Fatalf("config export error: %v", err)
	}
	rewriteSyncFile(t, filepath.Join(syncDirFor(root), "system.site.yml"), "name: Intranet", "name: Renamed")

	out, _, err := runCLI(t, "y\n", "config", "import", "--root", root)
	if err != nil {
		t.Fatalf("config import error: %v", err)
	}
	if !strings.Contains(out, fmt.Sprintf(messages.ConfigImportedFmt, 1)) {
		t.Fatalf("expected import summary, got %q", out)
	}

	// The store now matches the sync directory.
	again, _, err := runCLI(t, "", "config", "import", "--root", root)
	if err != nil {
		t.Fatalf("config import error: %v", err)
	}
	if again != messages.ConfigNoChanges {
		t.Fatalf("output = %q, want %q", again, messages.ConfigNoChanges)
	}
}

func TestConfigImportCommandAssumeYes(t *testing.T) {
	root := installTestSite(t)
	if _, _, err := runCLI(t, "", "config", "export", "--root", root); err != nil {
		t.Fatalf("config export error: %v", err)
	}
	rewriteSyncFile(t, filepath.Join(syncDirFor(root), "system.site.yml"), "name: Intranet", "name: Renamed")

	out, errOut, err := runCLI(t, "", "config", "import", "--root", root, "--yes")
	if err != nil {
		t.Fatalf("config import error: %v", err)
	}
	if !strings.Contains(out, fmt.Sprintf(messages.ConfigImportedFmt, 1)) {
		t.Fatalf("expected import summary, got %q", out)
	}
	if strings.Contains(errOut, messages.ConfigImportPrompt) {
		t.Fatalf("unexpected prompt with --yes: %q", errOut)
	}
}

func TestConfigImportCommandUUIDMismatch(t *testing.T) {
	root := installTestSite(t)
	if _, _, err := runCLI(t, "", "config", "export", "--root", root); err != nil {
		t.Fatalf("config export error: %v", err)
	}
	sitePath := filepath.Join(syncDirFor(root), "system.site.yml")
	data, err := os.ReadFile(sitePath)
	if err != nil {
		t.Fatalf("read %s: %v", sitePath, err)
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if strings.HasPrefix(line, "uuid:") {
			line = "uuid: 99999999-8888-7777-6666-555555555555"
		}
		lines = append(lines, line)
	}
	if err := os.WriteFile(sitePath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", sitePath, err)
	}

	_, _, err = runCLI(t, "", "config", "import", "--root", root, "--yes")
	if err == nil || !strings.Contains(err.Error(), "does not match the installed site") {
		t.Fatalf("expected UUID mismatch error, got %v", err)
	}
}

func TestConfigImportCommandEmptyDir(t *testing.T) {
	root := installTestSite(t)

	_, _, err := runCLI(t, "", "config", "import", "--root", root)
	if err == nil || !strings.Contains(err.Error(), "contains no configuration") {
		t.Fatalf("expected empty sync dir error, got %v", err)
	}
}

func TestConfigCommandsNotInstalled(t *testing.T) {
	quietInstall(t)
	root := writeProject(t)

	_, _, err := runCLI(t, "", "config", "export", "--root", root)
	if err == nil || !strings.Contains(err.Error(), "is not installed") {
		t.Fatalf("expected not-installed error, got %v", err)
	}
	_, _, err = runCLI(t, "", "config", "import", "--root", root)
	if err == nil || !strings.Contains(err.Error(), "is not installed") {
		t.Fatalf("expected not-installed error, got %v", err)
	}
}
