package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/dburl"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/sites"
)

// dbConnFromSite resolves the database connection the db commands work on:
// --db-url when given, otherwise the installed site's settings.
func dbConnFromSite(opts *rootOptions, dbURL string) (*dburl.Conn, error) {
	if dbURL != "" {
		return dburl.Parse(dbURL)
	}
	root, err := opts.projectRoot()
	if err != nil {
		return nil, err
	}
	subdir, err := opts.siteSubdir(root)
	if err != nil {
		return nil, err
	}
	site, err := sites.LoadSite(root, subdir)
	if err != nil {
		return nil, fmt.Errorf(messages.StatusNotInstalledFmt, subdir)
	}
	return sites.SiteConn(root, subdir, site)
}

func newDBCreateCmd(opts *rootOptions) *cobra.Command {
	var dbURL string
	var su string
	var suPassword string
	cmd := &cobra.Command{
		Use:   messages.DBCreateUse,
		Short: messages.DBCreateShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dbConnFromSite(opts, dbURL)
			if err != nil {
				return err
			}
			if su != "" || suPassword != "" {
				conn = conn.WithSU(su, suPassword)
			}
			if err := database.CreateDatabase(cmd.Context(), conn); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.DBCreatedFmt, conn.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbURL, "db-url", "", messages.InstallFlagDBURL)
	cmd.Flags().StringVar(&su, "db-su", "", messages.InstallFlagDBSU)
	cmd.Flags().StringVar(&suPassword, "db-su-pw", "", messages.InstallFlagDBSUPassword)
	return cmd
}

func newDBDropCmd(opts *rootOptions) *cobra.Command {
	var dbURL string
	cmd := &cobra.Command{
		Use:   messages.DBDropUse,
		Short: messages.DBDropShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dbConnFromSite(opts, dbURL)
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), conn)
			if err != nil {
				return err
			}
			defer db.Close()
			tables, err := db.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tables) == 0 {
				_, _ = fmt.Fprintf(out, messages.DBDropNothingFmt, conn.Prefix, conn.Name)
				return nil
			}
			if !opts.yes {
				prompt := fmt.Sprintf(messages.DBConfirmDropTablesFmt, len(tables), conn.Prefix, conn.Name)
				ok, err := promptYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt, false)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New(messages.DBDropAborted)
				}
			}
			dropped, err := db.DropTables(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.DBDroppedFmt, dropped, conn.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbURL, "db-url", "", messages.InstallFlagDBURL)
	return cmd
}

func newDBStatusCmd(opts *rootOptions) *cobra.Command {
	var dbURL string
	cmd := &cobra.Command{
		Use:   messages.DBStatusUse,
		Short: messages.DBStatusShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dbConnFromSite(opts, dbURL)
			if err != nil {
				return err
			}
			db, err := database.Open(cmd.Context(), conn)
			if err != nil {
				return err
			}
			defer db.Close()
			tables, err := db.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.DBStatusConnectedFmt, conn.Redacted(), len(tables))
			return nil
		},
	}
	cmd.Flags().StringVar(&dbURL, "db-url", "", messages.InstallFlagDBURL)
	return cmd
}
