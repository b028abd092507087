// Package profiles ships the built-in install profiles. A profile names the
// modules enabled at install time and the default configuration objects
// seeded into the active store.
package profiles

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/masonry-cms/mason/internal/messages"
)

//go:embed all:profiles
var profilesFS embed.FS

// DefaultName is the profile installed when none is requested.
const DefaultName = "standard"

// Profile describes one install profile.
type Profile struct {
	Name    string   `yaml:"name"`
	Label   string   `yaml:"label"`
	Modules []string `yaml:"modules"`
}

// Names returns the available profile names, sorted.
func Names() []string {
	entries, err := profilesFS.ReadDir("profiles")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Load reads a built-in profile by name.
func Load(name string) (*Profile, error) {
	data, err := profilesFS.ReadFile(path.Join("profiles", name, "profile.yml"))
	if err != nil {
		return nil, fmt.Errorf(messages.InstallProfileUnknownFmt, name, strings.Join(Names(), ", "))
	}
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf(messages.ProfileReadFmt, name, err)
	}
	if profile.Name == "" {
		profile.Name = name
	}
	return &profile, nil
}

// DefaultConfig returns the profile's default configuration objects as a
// name to YAML document map.
func (p *Profile) DefaultConfig() (map[string][]byte, error) {
	dir := path.Join("profiles", p.Name, "config")
	entries, err := profilesFS.ReadDir(dir)
	if err != nil {
		// Profiles without extra config ship no config directory.
		return map[string][]byte{}, nil
	}
	objects := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		data, err := profilesFS.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf(messages.ProfileReadFmt, p.Name, err)
		}
		objects[strings.TrimSuffix(entry.Name(), ".yml")] = data
	}
	return objects, nil
}

// coreExtension mirrors the core.extension configuration object.
type coreExtension struct {
	Profile string   `yaml:"profile"`
	Modules []string `yaml:"modules"`
}

// FromConfigDir recovers the profile recorded in an exported configuration
// directory by reading its core.extension object.
func FromConfigDir(dir string) (string, error) {
	source := filepath.Join(dir, "core.extension.yml")
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf(messages.ProfileExtensionsFmt, source, err)
	}
	var extension coreExtension
	if err := yaml.Unmarshal(data, &extension); err != nil {
		return "", fmt.Errorf(messages.ProfileExtensionsFmt, source, err)
	}
	if extension.Profile == "" {
		return "", fmt.Errorf(messages.ProfileExtensionsFmt, source, errors.New("no profile recorded"))
	}
	return extension.Profile, nil
}
