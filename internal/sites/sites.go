// Package sites locates Masonry project roots and the per-site directories
// under sites/.
package sites

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/settings"
)

// ManifestName is the marker file identifying a Masonry project root.
const ManifestName = "masonry.toml"

// DefaultSubdir is the sites directory used when no URI maps elsewhere.
const DefaultSubdir = "default"

// Manifest is the decoded masonry.toml project manifest.
type Manifest struct {
	Project struct {
		Name string `toml:"name"`
		URI  string `toml:"uri"`
	} `toml:"project"`
}

// FindRoot walks up from start looking for a directory containing
// masonry.toml. It reports whether a root was found.
func FindRoot(start string) (string, bool, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, ManifestName))
		if err == nil && !info.IsDir() {
			return dir, true, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadManifest reads the project manifest at root.
func LoadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.SettingsReadFmt, path, err)
	}
	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf(messages.ManifestParseFmt, path, err)
	}
	return &manifest, nil
}

// Dir returns the site directory for a subdir.
func Dir(root string, subdir string) string {
	return filepath.Join(root, "sites", subdir)
}

// SettingsPath returns the settings.toml path for a subdir.
func SettingsPath(root string, subdir string) string {
	return filepath.Join(Dir(root, subdir), settings.FileName)
}

// EnvPath returns the .env path for a subdir.
func EnvPath(root string, subdir string) string {
	return filepath.Join(Dir(root, subdir), ".env")
}

// EnsureDir creates the site directory and its files/ subdirectory.
func EnsureDir(root string, subdir string) error {
	dir := filepath.Join(Dir(root, subdir), "files")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.SitesCreateDirFmt, dir, err)
	}
	return nil
}

// LoadSite reads and validates the settings.toml for a subdir.
func LoadSite(root string, subdir string) (*settings.Site, error) {
	return settings.Load(SettingsPath(root, subdir))
}

// IsInstalled reports whether a subdir has a valid settings.toml.
func IsInstalled(root string, subdir string) bool {
	_, err := LoadSite(root, subdir)
	return err == nil
}

// simpleNameRE matches URIs that already are a sites directory name.
var simpleNameRE = regexp.MustCompile(`^[a-z0-9_-]+$`)

// hostRE matches the host[:port] remainder of a stripped URI.
var hostRE = regexp.MustCompile(`^[a-z0-9.-]+(:[0-9]+)?$`)

// DetectSubdir picks the sites directory for a URI. Bare names like
// "staging" are used directly. Otherwise the scheme is stripped and the
// host (with the port appended as host.port) is checked against existing
// sites/ directories, then against the sites.toml alias registry. When
// nothing matches, the answer is "default".
func DetectSubdir(root string, uri string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(uri))
	if trimmed == "" {
		return DefaultSubdir, nil
	}
	if simpleNameRE.MatchString(trimmed) {
		return trimmed, nil
	}

	stripped := trimmed
	if _, rest, found := strings.Cut(trimmed, "://"); found {
		stripped = rest
	}
	stripped, _, _ = strings.Cut(stripped, "/")
	if !hostRE.MatchString(stripped) {
		return "", fmt.Errorf(messages.SitesSubdirInvalidFmt, uri)
	}

	host, port, hasPort := strings.Cut(stripped, ":")
	candidates := []string{host}
	if hasPort {
		candidates = []string{host + "." + port, host}
	}
	for _, candidate := range candidates {
		info, err := os.Stat(Dir(root, candidate))
		if err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	registry, err := LoadRegistry(root)
	if err != nil {
		return "", err
	}
	keys := []string{stripped, host}
	if hasPort {
		keys = []string{stripped, host + "." + port, host}
	}
	if subdir, ok := registry.Lookup(keys...); ok {
		return subdir, nil
	}
	return DefaultSubdir, nil
}
