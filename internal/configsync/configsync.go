// Package configsync moves site configuration between the active store and
// the sync directory. Objects are YAML documents keyed by name; the active
// copies live in the site's config table and the synced copies are one
// <name>.yml file each.
package configsync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/masonry-cms/mason/internal/fsutil"
	"github.com/masonry-cms/mason/internal/messages"
)

const (
	// FileSuffix is the extension of synced configuration files.
	FileSuffix = ".yml"
	// SiteObjectName is the object carrying the site identity, including the
	// UUID the import guard checks.
	SiteObjectName = "system.site"
	// ExtensionObjectName is the object recording the install profile and
	// enabled modules.
	ExtensionObjectName = "core.extension"

	maxNameLength = 250
)

var namePattern = regexp.MustCompile(`^[a-z0-9_.]+$`)

// ValidateName checks that name is a legal configuration object name.
func ValidateName(name string) error {
	if name == "" || len(name) > maxNameLength || !namePattern.MatchString(name) {
		return fmt.Errorf(messages.ConfigInvalidNameFmt, name)
	}
	return nil
}

// Objects holds configuration objects keyed by name. Values are canonical
// YAML as produced by Normalize.
type Objects map[string][]byte

// Names returns the object names in sorted order.
func (o Objects) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize parses data as YAML and re-encodes it so that documents compare
// equal regardless of their original formatting.
func Normalize(name string, data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf(messages.ConfigDecodeObjectFmt, name, err)
	}
	if doc == nil {
		return []byte{}, nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigDecodeObjectFmt, name, err)
	}
	return out, nil
}

// ReadDir loads every configuration object in dir. Files without the .yml
// suffix and subdirectories are ignored.
func ReadDir(dir string) (Objects, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(messages.ConfigSyncDirMissingFmt, dir)
	}
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadObjectFmt, dir, err)
	}

	objects := make(Objects)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), FileSuffix)
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigReadObjectFmt, name, err)
		}
		normalized, err := Normalize(name, data)
		if err != nil {
			return nil, err
		}
		objects[name] = normalized
	}
	return objects, nil
}

// SiteUUID returns the uuid recorded in the objects' system.site entry, or
// the empty string when the entry or its uuid key is absent.
func SiteUUID(objects Objects) (string, error) {
	data, ok := objects[SiteObjectName]
	if !ok {
		return "", nil
	}
	var site struct {
		UUID string `yaml:"uuid"`
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return "", fmt.Errorf(messages.ConfigDecodeObjectFmt, SiteObjectName, err)
	}
	return site.UUID, nil
}

// ImportOptions adjust how Plan treats the incoming configuration.
type ImportOptions struct {
	// AdoptUUID accepts the incoming site UUID instead of requiring a match
	// with the active one. Set when installing from an existing export.
	AdoptUUID bool
}

// Plan reads dir, compares it against the active store, and returns the
// pending changes. An empty directory is an error; importing nothing is
// never what the caller wants.
func Plan(ctx context.Context, store *Store, dir string, opts ImportOptions) (Changes, error) {
	incoming, err := ReadDir(dir)
	if err != nil {
		return Changes{}, err
	}
	if len(incoming) == 0 {
		return Changes{}, fmt.Errorf(messages.ConfigSyncDirEmptyFmt, dir)
	}
	active, err := store.LoadAll(ctx)
	if err != nil {
		return Changes{}, err
	}
	if !opts.AdoptUUID {
		if err := checkSiteUUID(dir, active, incoming); err != nil {
			return Changes{}, err
		}
	}
	return Diff(active, incoming), nil
}

// checkSiteUUID rejects configuration exported from a different site. The
// guard only applies when the active store already records a UUID.
func checkSiteUUID(dir string, active, incoming Objects) error {
	activeUUID, err := SiteUUID(active)
	if err != nil {
		return err
	}
	if activeUUID == "" {
		return nil
	}
	incomingUUID, err := SiteUUID(incoming)
	if err != nil {
		return err
	}
	if incomingUUID == "" {
		return fmt.Errorf(messages.ConfigUUIDMissingFmt, dir)
	}
	if incomingUUID != activeUUID {
		file := filepath.Join(dir, SiteObjectName+FileSuffix)
		return fmt.Errorf(messages.ConfigUUIDMismatchFmt, file, incomingUUID, activeUUID)
	}
	return nil
}

// Import plans and applies the sync directory in one step. Callers that show
// a preview first use Plan and Store.Apply directly.
func Import(ctx context.Context, store *Store, dir string, opts ImportOptions) (Changes, error) {
	changes, err := Plan(ctx, store, dir, opts)
	if err != nil {
		return Changes{}, err
	}
	if changes.Empty() {
		return changes, nil
	}
	if err := store.Apply(ctx, changes); err != nil {
		return Changes{}, err
	}
	return changes, nil
}

// Export mirrors the active store into dir: every active object is written
// and stale configuration files are removed. Files that are not valid
// configuration names are left alone. Returns the number of objects written.
func Export(ctx context.Context, store *Store, dir string) (int, error) {
	active, err := store.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf(messages.ConfigWriteObjectFmt, dir, err)
	}
	for _, name := range active.Names() {
		path := filepath.Join(dir, name+FileSuffix)
		if err := fsutil.WriteFileAtomic(path, active[name], 0o644); err != nil {
			return 0, fmt.Errorf(messages.ConfigWriteObjectFmt, name, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf(messages.ConfigReadObjectFmt, dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), FileSuffix)
		if ValidateName(name) != nil {
			continue
		}
		if _, ok := active[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return 0, fmt.Errorf(messages.ConfigWriteObjectFmt, name, err)
		}
	}
	return len(active), nil
}
