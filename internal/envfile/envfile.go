// Package envfile reads and patches per-site .env files. Reading goes
// through godotenv; patching is line-based so comments and ordering survive.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/masonry-cms/mason/internal/messages"
)

// PasswordVar is the .env variable holding the site database password. It is
// kept out of settings.toml so settings can be committed.
const PasswordVar = "MASON_DB_PASSWORD"

// Load reads a .env file into a key-value map. A missing file yields an
// empty map.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.EnvFileReadFmt, path, err)
	}
	env, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, fmt.Errorf(messages.EnvFileReadFmt, path, err)
	}
	return env, nil
}

// Patch merges updates into .env content. The first assignment of each key
// is rewritten in place, later duplicates of patched keys are dropped, and
// missing keys are appended. Comments and unrelated lines are untouched.
// Empty update values are skipped rather than written.
func Patch(content string, updates map[string]string) string {
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	firstSeen := map[string]int{}
	for i, line := range lines {
		if key, ok := lineKey(line); ok {
			if _, dup := firstSeen[key]; !dup {
				firstSeen[key] = i
			}
		}
	}

	patched := make(map[string]bool)
	for key, value := range updates {
		if value == "" {
			continue
		}
		patched[key] = true
		assignment := key + "=" + encodeValue(value)
		if idx, ok := firstSeen[key]; ok {
			lines[idx] = assignment
			continue
		}
		if n := len(lines); n > 0 && lines[n-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, assignment)
		firstSeen[key] = len(lines) - 1
	}

	if len(patched) == 0 {
		return strings.Join(lines, "\n")
	}

	kept := lines[:0:0]
	for i, line := range lines {
		if key, ok := lineKey(line); ok && patched[key] && firstSeen[key] != i {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// lineKey returns the key a .env line assigns, when it assigns one.
func lineKey(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return "", false
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "export "))
	key, _, found := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", false
	}
	return key, true
}

// encodeValue quotes a value when .env syntax requires it.
func encodeValue(value string) string {
	if !strings.ContainsAny(value, " \t#\n\r\"'") {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	value = strings.ReplaceAll(value, "\r", `\r`)
	return `"` + value + `"`
}
