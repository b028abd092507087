package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/masonry-cms/mason/internal/messages"
)

// Defaults holds per-user fallback values read from ~/.mason/defaults.toml.
// Installs use them for fields the user did not supply on the command line.
type Defaults struct {
	Account struct {
		Name string `toml:"name"`
		Mail string `toml:"mail"`
	} `toml:"account"`
	Site struct {
		Mail string `toml:"mail"`
	} `toml:"site"`
	Locale string `toml:"locale"`
}

// DefaultsPath returns the location of the per-user defaults file.
func DefaultsPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mason", "defaults.toml"), nil
}

// LoadDefaults reads the per-user defaults file. A missing file is not an
// error; it yields zero Defaults.
func LoadDefaults() (Defaults, error) {
	path, err := DefaultsPath()
	if err != nil {
		return Defaults{}, err
	}
	return loadDefaultsFile(path)
}

func loadDefaultsFile(path string) (Defaults, error) {
	var defaults Defaults
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf(messages.SettingsReadFmt, path, err)
	}
	if err := toml.Unmarshal(data, &defaults); err != nil {
		return defaults, fmt.Errorf(messages.SettingsParseFmt, path, err)
	}
	return defaults, nil
}
