//go:build !windows

package terminal

import (
	"testing"

	"github.com/creack/pty"
)

func TestIsTerminalPTY(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	if !IsTerminal(tty) {
		t.Fatal("pty slave not reported as terminal")
	}
}
