package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "mason"
	// RootShort is the short description for the root command.
	RootShort       = "Masonry CMS CLI"
	RootFlagRoot    = "Masonry project root (defaults to the nearest parent directory containing masonry.toml)"
	RootFlagURI     = "Site URI used to pick the sites subdirectory, e.g. https://example.com"
	RootFlagYes     = "Assume yes for all confirmations"
	RootNotAProject = "not inside a Masonry project (no masonry.toml found in this directory or any parent); pass --root or run from a project"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt  = "commit %s"
	VersionBuildFmt   = "built %s"
	VersionFullFmt    = "%s (%s)"
	VersionTemplate   = "{{.Version}}\n"
	VersionInvalidFmt = "version %q must be in the form vX.Y.Z or X.Y.Z"

	// SiteUse is the site command group name.
	SiteUse   = "site"
	SiteShort = "Install and inspect Masonry sites"

	// ConfigUse is the config command group name.
	ConfigUse   = "config"
	ConfigShort = "Import and export site configuration"

	// DBUse is the db command group name.
	DBUse   = "db"
	DBShort = "Manage the site database"

	// McpUse is the mcp command usage.
	McpUse            = "mcp"
	McpShort          = "Run an MCP stdio server exposing read-only site tools"
	McpToolStatusDesc = "Report the install status of the Masonry site as JSON"
	McpToolDiffDesc   = "Show the configuration changes a configuration import would apply"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt   = "%s [Y/n]: "
	PromptNoDefaultFmt    = "%s [y/N]: "
	PromptInvalidResponse = "invalid response %q"
	PromptRetryYesNo      = "Please enter y or n."

	OperandInvalidAssignmentFmt = "invalid settings override %q: expected key=value with a dotted key"
	OperandProfileAfterKVFmt    = "unexpected operand %q: the profile name must come before key=value overrides"
)
