// Package version validates and normalizes release version strings.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/masonry-cms/mason/internal/messages"
)

// IsDev reports whether raw identifies an unreleased development build.
func IsDev(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == "dev"
}

// Normalize validates raw as a semantic version and returns it in X.Y.Z form
// with any leading "v" removed.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
	}
	for _, part := range parts {
		if part == "" {
			return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
		}
		if _, err := strconv.Atoi(part); err != nil {
			return "", fmt.Errorf(messages.VersionInvalidFmt, raw)
		}
	}
	return trimmed, nil
}
