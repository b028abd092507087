package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/requirements"
	"github.com/masonry-cms/mason/internal/sites"
	"github.com/masonry-cms/mason/internal/status"
)

func newSiteStatusCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	var strict bool
	cmd := &cobra.Command{
		Use:   messages.StatusUse,
		Short: messages.StatusShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.projectRoot()
			if err != nil {
				return err
			}
			subdir, err := opts.siteSubdir(root)
			if err != nil {
				return err
			}
			st, err := status.Collect(cmd.Context(), root, subdir, opts.uri, Version)
			if err != nil {
				return err
			}
			if asJSON {
				if err := status.RenderJSON(cmd.OutOrStdout(), st); err != nil {
					return err
				}
			} else {
				status.RenderTable(cmd.OutOrStdout(), st)
			}
			if !strict {
				return nil
			}
			// In JSON mode the checklist goes to stderr so stdout stays
			// machine-readable.
			checkOut := cmd.OutOrStdout()
			if asJSON {
				checkOut = cmd.ErrOrStderr()
			}
			return runStrictChecks(cmd, checkOut, root, subdir)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, messages.StatusFlagJSON)
	cmd.Flags().BoolVar(&strict, "strict", false, messages.StatusFlagStrict)
	return cmd
}

// runStrictChecks reruns the install requirement checks against the current
// site. The database and sync dir checks only apply when settings.toml
// already describes them.
func runStrictChecks(cmd *cobra.Command, out io.Writer, root string, subdir string) error {
	params := requirements.Params{Root: root, Subdir: subdir}
	if site, err := sites.LoadSite(root, subdir); err == nil {
		conn, err := sites.SiteConn(root, subdir, site)
		if err != nil {
			return err
		}
		params.Conn = conn
		if site.Config.Sync != "" {
			params.ConfigDir = sites.SyncDirPath(root, subdir, site)
		}
	}
	results := requirements.Check(cmd.Context(), params)
	requirements.Render(out, results)
	if requirements.HasFailure(results) {
		return errors.New(messages.StatusChecksFailed)
	}
	return nil
}
