// Package status collects what mason knows about a site and renders it for
// the site status command and the MCP server.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/masonry-cms/mason/internal/configsync"
	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/sites"
	"github.com/masonry-cms/mason/internal/state"
)

// Status describes one site. Fields past Installed are only meaningful when
// the site's database answered.
type Status struct {
	SiteName       string `json:"site_name,omitempty"`
	URI            string `json:"uri,omitempty"`
	Subdir         string `json:"subdir"`
	Installed      bool   `json:"installed"`
	Profile        string `json:"profile,omitempty"`
	SchemaVersion  string `json:"schema_version,omitempty"`
	Driver         string `json:"driver,omitempty"`
	Database       string `json:"database,omitempty"`
	Connected      bool   `json:"connected"`
	ConfigDir      string `json:"config_dir,omitempty"`
	PendingChanges int    `json:"pending_changes"`
	Version        string `json:"version,omitempty"`
}

// Collect gathers the status of the site at subdir. A site without a valid
// settings.toml reports Installed false; an unreachable database reports
// Connected false. Neither is an error.
func Collect(ctx context.Context, root string, subdir string, uri string, version string) (*Status, error) {
	st := &Status{Subdir: subdir, URI: uri, Version: version}

	site, err := sites.LoadSite(root, subdir)
	if err != nil {
		return st, nil
	}
	st.Installed = true
	st.SiteName = site.Site.Name
	st.Driver = site.Database.Driver

	conn, err := sites.SiteConn(root, subdir, site)
	if err != nil {
		return nil, fmt.Errorf(messages.StatusCollectFmt, err)
	}
	st.Database = conn.Redacted()
	st.ConfigDir = sites.SyncDirPath(root, subdir, site)

	db, err := database.Open(ctx, conn)
	if err != nil {
		return st, nil
	}
	defer db.Close()
	st.Connected = true

	states := state.NewStore(db)
	if st.SchemaVersion, err = states.Get(ctx, state.KeySchemaVersion); err != nil {
		return nil, fmt.Errorf(messages.StatusCollectFmt, err)
	}
	if st.Profile, err = states.Get(ctx, state.KeyInstallProfile); err != nil {
		return nil, fmt.Errorf(messages.StatusCollectFmt, err)
	}

	st.PendingChanges, err = pendingChanges(ctx, db, st.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf(messages.StatusCollectFmt, err)
	}
	return st, nil
}

// pendingChanges counts objects that differ between the sync directory and
// the active store. A missing or empty sync directory pends nothing.
func pendingChanges(ctx context.Context, db *database.DB, dir string) (int, error) {
	if _, err := os.Stat(dir); err != nil {
		return 0, nil
	}
	incoming, err := configsync.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	if len(incoming) == 0 {
		return 0, nil
	}
	active, err := configsync.NewStore(db).LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return configsync.Diff(active, incoming).Total(), nil
}

// RenderTable writes the status as a two-column table.
func RenderTable(w io.Writer, st *Status) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{messages.StatusFieldSiteName, st.SiteName},
		{messages.StatusFieldURI, st.URI},
		{messages.StatusFieldSubdir, st.Subdir},
		{messages.StatusFieldProfile, st.Profile},
		{messages.StatusFieldSchemaVersion, st.SchemaVersion},
		{messages.StatusFieldDatabase, st.Database},
		{messages.StatusFieldConnected, st.Connected},
		{messages.StatusFieldConfigDir, st.ConfigDir},
		{messages.StatusFieldPending, st.PendingChanges},
		{messages.StatusFieldVersion, st.Version},
	})
	t.Render()
}

// RenderJSON writes the status as indented JSON.
func RenderJSON(w io.Writer, st *Status) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(st)
}
