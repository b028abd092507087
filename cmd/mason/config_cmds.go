package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/masonry-cms/mason/internal/configsync"
	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/sites"
)

// openSiteDB resolves the current site and opens its database. It returns
// the open handle and the site's sync directory; the caller closes the
// handle.
func openSiteDB(ctx context.Context, opts *rootOptions) (*database.DB, string, error) {
	root, err := opts.projectRoot()
	if err != nil {
		return nil, "", err
	}
	subdir, err := opts.siteSubdir(root)
	if err != nil {
		return nil, "", err
	}
	site, err := sites.LoadSite(root, subdir)
	if err != nil {
		return nil, "", fmt.Errorf(messages.StatusNotInstalledFmt, subdir)
	}
	conn, err := sites.SiteConn(root, subdir, site)
	if err != nil {
		return nil, "", err
	}
	db, err := database.Open(ctx, conn)
	if err != nil {
		return nil, "", err
	}
	return db, sites.SyncDirPath(root, subdir, site), nil
}

func newConfigImportCmd(opts *rootOptions) *cobra.Command {
	var dir string
	var preview bool
	cmd := &cobra.Command{
		Use:   messages.ConfigImportUse,
		Short: messages.ConfigImportShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, syncDir, err := openSiteDB(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close()
			if dir != "" {
				syncDir = dir
			}
			store := configsync.NewStore(db)
			changes, err := configsync.Plan(cmd.Context(), store, syncDir, configsync.ImportOptions{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changes.Empty() {
				_, _ = fmt.Fprint(out, messages.ConfigNoChanges)
				return nil
			}
			_, _ = fmt.Fprint(out, changes.Unified())
			_, _ = fmt.Fprintf(out, messages.ConfigImportSummaryFmt, len(changes.Create), len(changes.Update), len(changes.Delete))
			if preview {
				return nil
			}
			if !opts.yes {
				ok, err := promptYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(), messages.ConfigImportPrompt, false)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New(messages.ConfigImportAborted)
				}
			}
			if err := store.Apply(cmd.Context(), changes); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.ConfigImportedFmt, changes.Total())
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", messages.ConfigFlagDir)
	cmd.Flags().BoolVar(&preview, "preview", false, messages.ConfigFlagPreview)
	return cmd
}

func newConfigExportCmd(opts *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   messages.ConfigExportUse,
		Short: messages.ConfigExportShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, syncDir, err := openSiteDB(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer db.Close()
			if dir != "" {
				syncDir = dir
			}
			n, err := configsync.Export(cmd.Context(), configsync.NewStore(db), syncDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if n == 0 {
				_, _ = fmt.Fprint(out, messages.ConfigNothingToExport)
				return nil
			}
			_, _ = fmt.Fprintf(out, messages.ConfigExportedFmt, n, syncDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", messages.ConfigFlagDir)
	return cmd
}
