package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/masonry-cms/mason/internal/messages"
)

// Build metadata, stamped by the release pipeline through -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var executeFunc = execute

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// SilentExitError carries an exit code for failures whose details were
// already written to the terminal.
type SilentExitError struct {
	Code int
}

func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// runMain maps the outcome of one CLI invocation onto a process exit code.
// This is the only place a command error is printed.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	err := executeFunc(args, stdout, stderr)
	if err == nil {
		return
	}
	var silent *SilentExitError
	if errors.As(err, &silent) {
		exit(silent.Code)
		return
	}
	_, _ = fmt.Fprintln(stderr, err)
	exit(1)
}

// execute builds the command tree and runs it against args.
func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	root := newRootCmd()
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.Version = versionString()
	root.SetVersionTemplate(messages.VersionTemplate)
	if len(args) > 1 {
		root.SetArgs(args[1:])
	}
	return root.Execute()
}

// versionString decorates Version with whatever build metadata was stamped.
func versionString() string {
	var parts []string
	if Commit != "" && Commit != "unknown" {
		parts = append(parts, fmt.Sprintf(messages.VersionCommitFmt, Commit))
	}
	if BuildDate != "" && BuildDate != "unknown" {
		parts = append(parts, fmt.Sprintf(messages.VersionBuildFmt, BuildDate))
	}
	if len(parts) == 0 {
		return Version
	}
	return fmt.Sprintf(messages.VersionFullFmt, Version, strings.Join(parts, ", "))
}
