package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masonry-cms/mason/internal/settings"
)

// writeProject creates a Masonry project root with a manifest.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	manifest := filepath.Join(root, "masonry.toml")
	if err := os.WriteFile(manifest, []byte("[project]\nname = \"Test project\"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return root
}

// stubTerminal pins terminal detection for the test.
func stubTerminal(t *testing.T, value bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = func() bool { return value }
	t.Cleanup(func() { isTerminal = orig })
}

// stubUserDefaults pins the per-user defaults file contents for the test.
func stubUserDefaults(t *testing.T, defaults settings.Defaults) {
	t.Helper()
	orig := loadUserDefaults
	loadUserDefaults = func() (settings.Defaults, error) { return defaults, nil }
	t.Cleanup(func() { loadUserDefaults = orig })
}

// runCLI executes the root command with args and the given stdin, returning
// stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
