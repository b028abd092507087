package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/masonry-cms/mason/internal/messages"
)

// FileName is the settings file name inside a site directory.
const FileName = "settings.toml"

// ErrSettingsValidation is a sentinel that wraps settings validation failures
// (as opposed to TOML syntax or filesystem errors). Callers can use
// errors.Is(err, ErrSettingsValidation) to tell the two apart.
var ErrSettingsValidation = errors.New("settings validation failed")

// Site is the decoded settings.toml for one site. The database password is
// deliberately absent; it lives in the site's .env file.
type Site struct {
	Site     SiteInfo   `toml:"site"`
	Database Database   `toml:"database"`
	Config   SyncConfig `toml:"config"`
}

// SiteInfo holds identity fields for the site.
type SiteInfo struct {
	Name     string `toml:"name"`
	Mail     string `toml:"mail"`
	UUID     string `toml:"uuid"`
	Langcode string `toml:"langcode"`
}

// Database holds the connection settings persisted for the site.
type Database struct {
	Driver string `toml:"driver"`
	Host   string `toml:"host"`
	Port   int    `toml:"port"`
	Name   string `toml:"name"`
	User   string `toml:"user"`
	Prefix string `toml:"prefix"`
}

// SyncConfig holds configuration sync settings.
type SyncConfig struct {
	Sync string `toml:"sync"`
}

// DefaultSyncDir is the sync directory used when settings.toml does not name one.
const DefaultSyncDir = "config/sync"

// SyncDir returns the configuration sync directory, relative to the site
// directory unless absolute.
func (s *Site) SyncDir() string {
	if s.Config.Sync == "" {
		return DefaultSyncDir
	}
	return s.Config.Sync
}

// Load reads and validates a settings.toml file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.SettingsReadFmt, path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates settings TOML data. Unknown keys are allowed;
// the settings file is user-owned and may carry site-specific extras.
func Parse(data []byte, source string) (*Site, error) {
	var site Site
	if err := toml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf(messages.SettingsParseFmt, source, err)
	}
	if err := site.Validate(source); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks that the database section is complete enough to connect.
func (s *Site) Validate(source string) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrSettingsValidation, fmt.Sprintf(format, args...))
	}
	switch s.Database.Driver {
	case "mysql", "pgsql":
		if s.Database.Host == "" {
			return fail(messages.SettingsDBHostRequiredFmt, source, s.Database.Driver)
		}
		if s.Database.Port < 1 || s.Database.Port > 65535 {
			return fail(messages.SettingsDBPortRangeFmt, source, s.Database.Port)
		}
		if s.Database.User == "" {
			return fail(messages.SettingsDBUserRequiredFmt, source, s.Database.Driver)
		}
	case "sqlite":
		// File-backed; no server fields.
	case "":
		return fail(messages.SettingsDBDriverMissingFmt, source)
	default:
		return fail(messages.SettingsDBDriverUnknownFmt, source, s.Database.Driver)
	}
	if s.Database.Name == "" {
		return fail(messages.SettingsDBNameMissingFmt, source)
	}
	return nil
}
