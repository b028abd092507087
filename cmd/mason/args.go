package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/settings"
)

// parseInstallOperands splits install operands into an optional leading
// profile name and key=value overrides. Later assignments win, including
// over earlier ones for the same key. Unknown keys warn and are carried
// into the settings tree verbatim.
func parseInstallOperands(args []string, warn io.Writer) (string, settings.Tree, error) {
	profile := ""
	overrides := settings.Tree{}
	sawAssignment := false
	for _, arg := range args {
		if !strings.Contains(arg, "=") {
			if profile != "" || sawAssignment {
				return "", nil, fmt.Errorf(messages.OperandProfileAfterKVFmt, arg)
			}
			profile = arg
			continue
		}
		sawAssignment = true
		key, value, err := settings.ParseAssignment(arg)
		if err != nil {
			return "", nil, err
		}
		known, err := settings.ValidateOverride(key, value)
		if err != nil {
			return "", nil, err
		}
		if !known {
			_, _ = fmt.Fprintf(warn, messages.InstallWarnUnknownKeyFmt, key)
		}
		if err := overrides.Set(key, value); err != nil {
			return "", nil, err
		}
	}
	return profile, overrides, nil
}
