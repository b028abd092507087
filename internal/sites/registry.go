package sites

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/masonry-cms/mason/internal/messages"
)

// RegistryName is the alias registry file under sites/.
const RegistryName = "sites.toml"

// Registry maps URI keys (host, host.port, or host:port) to sites
// directories, mirroring what DetectSubdir derives from URIs.
type Registry struct {
	Aliases map[string]string `toml:"aliases"`
}

// LoadRegistry reads sites/sites.toml. A missing file yields an empty
// registry.
func LoadRegistry(root string) (*Registry, error) {
	path := filepath.Join(root, "sites", RegistryName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Registry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.SettingsReadFmt, path, err)
	}
	var registry Registry
	if err := toml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf(messages.SitesRegistryFmt, path, err)
	}
	return &registry, nil
}

// Lookup returns the subdir for the first key with an alias.
func (r *Registry) Lookup(keys ...string) (string, bool) {
	for _, key := range keys {
		if subdir, ok := r.Aliases[key]; ok && subdir != "" {
			return subdir, true
		}
	}
	return "", false
}
