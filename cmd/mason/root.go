package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/sites"
)

var getwd = os.Getwd

// rootOptions holds the persistent flag values shared by every subcommand.
type rootOptions struct {
	root string
	uri  string
	yes  bool
}

// projectRoot resolves the Masonry project root: the --root flag when given,
// otherwise the nearest parent of the working directory containing
// masonry.toml. Both paths walk upward, so pointing --root inside a project
// works too.
func (o *rootOptions) projectRoot() (string, error) {
	start := o.root
	if start == "" {
		cwd, err := getwd()
		if err != nil {
			return "", err
		}
		start = cwd
	}
	root, found, err := sites.FindRoot(start)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.New(messages.RootNotAProject)
	}
	return root, nil
}

// siteSubdir resolves the sites subdirectory for the resolved root, driven
// by the --uri flag.
func (o *rootOptions) siteSubdir(root string) (string, error) {
	return sites.DetectSubdir(root, o.uri)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.root, "root", "r", "", messages.RootFlagRoot)
	cmd.PersistentFlags().StringVarP(&opts.uri, "uri", "l", "", messages.RootFlagURI)
	cmd.PersistentFlags().BoolVarP(&opts.yes, "yes", "y", false, messages.RootFlagYes)

	site := &cobra.Command{Use: messages.SiteUse, Short: messages.SiteShort}
	site.AddCommand(newSiteInstallCmd(opts), newSiteStatusCmd(opts))

	config := &cobra.Command{Use: messages.ConfigUse, Short: messages.ConfigShort}
	config.AddCommand(newConfigImportCmd(opts), newConfigExportCmd(opts))

	db := &cobra.Command{Use: messages.DBUse, Short: messages.DBShort}
	db.AddCommand(newDBCreateCmd(opts), newDBDropCmd(opts), newDBStatusCmd(opts))

	cmd.AddCommand(site, config, db, newMcpCmd(opts))
	return cmd
}
