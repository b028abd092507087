package sites

import (
	"path/filepath"

	"github.com/masonry-cms/mason/internal/dburl"
	"github.com/masonry-cms/mason/internal/envfile"
	"github.com/masonry-cms/mason/internal/settings"
)

// SiteConn builds the connection description for a site from its settings,
// reading the database password from the site's .env file. Relative sqlite
// paths resolve against the site directory.
func SiteConn(root string, subdir string, site *settings.Site) (*dburl.Conn, error) {
	env, err := envfile.Load(EnvPath(root, subdir))
	if err != nil {
		return nil, err
	}
	conn := &dburl.Conn{
		Driver:   site.Database.Driver,
		Host:     site.Database.Host,
		Port:     site.Database.Port,
		Name:     site.Database.Name,
		User:     site.Database.User,
		Password: env[envfile.PasswordVar],
		Prefix:   site.Database.Prefix,
	}
	return conn.ResolveRelative(Dir(root, subdir)), nil
}

// SyncDirPath returns the absolute configuration sync directory for a site.
func SyncDirPath(root string, subdir string, site *settings.Site) string {
	dir := site.SyncDir()
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(Dir(root, subdir), dir)
}
