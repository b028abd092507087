// Package updatewarn prints a best-effort nudge when a newer mason release
// exists. It never fails the command it runs inside.
package updatewarn

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/update"
)

// EnvNoNetwork disables the release check entirely, for air-gapped setups
// and tests.
const EnvNoNetwork = "MASON_NO_NETWORK"

// CheckForUpdate is a seam for tests.
var CheckForUpdate = update.Check

// WarnIfOutdated writes update warnings to stderr when a newer release is
// available.
func WarnIfOutdated(ctx context.Context, currentVersion string, stderr io.Writer) {
	if strings.TrimSpace(os.Getenv(EnvNoNetwork)) != "" {
		return
	}
	if stderr == nil {
		stderr = io.Discard
	}

	warn := color.New(color.FgYellow)
	result, err := CheckForUpdate(ctx, currentVersion)
	switch {
	case update.IsRateLimitError(err):
		// GitHub throttling is not worth a warning line.
	case err != nil:
		_, _ = warn.Fprintf(stderr, messages.InstallWarnUpdateCheckFailedFmt, err)
	case result.CurrentIsDev:
		_, _ = warn.Fprintf(stderr, messages.InstallWarnDevBuildFmt, result.Latest)
	case result.Outdated:
		_, _ = warn.Fprintf(stderr, messages.InstallWarnUpdateAvailableFmt, result.Latest, result.Current)
	}
}
