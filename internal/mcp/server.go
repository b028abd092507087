// Package mcp exposes read-only site inspection tools over the Model
// Context Protocol so editor agents can query a Masonry project.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/masonry-cms/mason/internal/configsync"
	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/sites"
	"github.com/masonry-cms/mason/internal/status"
)

// EnvProjectRoot overrides project root discovery for the MCP server, so
// clients do not depend on their launch cwd.
const EnvProjectRoot = "MASON_PROJECT_ROOT"

// Params identifies the site the tools inspect. The command resolves the
// project root and subdir before the server starts; tools never write.
type Params struct {
	Root    string
	Subdir  string
	URI     string
	Version string
}

type serverRunner func(ctx context.Context, server *mcp.Server) error

// Run serves the inspection tools over stdio until ctx is cancelled or the
// client disconnects.
func Run(ctx context.Context, params Params) error {
	return run(ctx, params, defaultRunner)
}

func run(ctx context.Context, params Params, runner serverRunner) error {
	if runner == nil {
		return fmt.Errorf(messages.McpServerFailedFmt, errors.New("server runner is nil"))
	}
	server := newServer(params)
	if err := runner(ctx, server); err != nil {
		return fmt.Errorf(messages.McpServerFailedFmt, err)
	}
	return nil
}

func newServer(params Params) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mason",
		Version: params.Version,
	}, nil)
	// Neither tool takes arguments; the site is fixed at server start.
	emptyObject := json.RawMessage(`{"type":"object"}`)
	server.AddTool(&mcp.Tool{
		Name:        "site-status",
		Description: messages.McpToolStatusDesc,
		InputSchema: emptyObject,
	}, statusHandler(params))
	server.AddTool(&mcp.Tool{
		Name:        "config-diff",
		Description: messages.McpToolDiffDesc,
		InputSchema: emptyObject,
	}, configDiffHandler(params))
	return server
}

func defaultRunner(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}

func statusHandler(params Params) mcp.ToolHandler {
	return func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st, err := status.Collect(ctx, params.Root, params.Subdir, params.URI, params.Version)
		if err != nil {
			return errorResult(err), nil
		}
		var buf bytes.Buffer
		if err := status.RenderJSON(&buf, st); err != nil {
			return errorResult(err), nil
		}
		return textResult(buf.String()), nil
	}
}

func configDiffHandler(params Params) mcp.ToolHandler {
	return func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		site, err := sites.LoadSite(params.Root, params.Subdir)
		if err != nil {
			return errorResult(fmt.Errorf(messages.StatusNotInstalledFmt, params.Subdir)), nil
		}
		conn, err := sites.SiteConn(params.Root, params.Subdir, site)
		if err != nil {
			return errorResult(err), nil
		}
		db, err := database.Open(ctx, conn)
		if err != nil {
			return errorResult(err), nil
		}
		defer db.Close()

		syncDir := sites.SyncDirPath(params.Root, params.Subdir, site)
		changes, err := configsync.Plan(ctx, configsync.NewStore(db), syncDir, configsync.ImportOptions{})
		if err != nil {
			return errorResult(err), nil
		}
		if changes.Empty() {
			return textResult(messages.ConfigNoChanges), nil
		}
		return textResult(changes.Unified()), nil
	}
}
