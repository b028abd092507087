package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masonry-cms/mason/internal/mcp"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/sites"
)

// resolveMcpRoot resolves the project root for the MCP server. Without an
// explicit --root it prefers MASON_PROJECT_ROOT, so MCP clients do not
// depend on their launch cwd.
func resolveMcpRoot(opts *rootOptions) (string, error) {
	if opts.root == "" {
		if hint := strings.TrimSpace(os.Getenv(mcp.EnvProjectRoot)); hint != "" {
			root, found, err := sites.FindRoot(hint)
			if err != nil {
				return "", err
			}
			if !found {
				return "", errors.New(messages.RootNotAProject)
			}
			return root, nil
		}
	}
	return opts.projectRoot()
}

func newMcpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.McpUse,
		Short: messages.McpShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveMcpRoot(opts)
			if err != nil {
				return err
			}
			subdir, err := opts.siteSubdir(root)
			if err != nil {
				return err
			}
			return mcp.Run(cmd.Context(), mcp.Params{
				Root:    root,
				Subdir:  subdir,
				URI:     opts.uri,
				Version: Version,
			})
		},
	}
}
