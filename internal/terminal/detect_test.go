package terminal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsTerminalRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Fatal("regular file reported as terminal")
	}
}

func TestIsInteractiveRuns(t *testing.T) {
	// Test environments have no TTY, so this is typically false. The value
	// depends on how tests are run; only verify the call is safe.
	_ = IsInteractive()
}
