package messages

// Status and requirements messages.
const (
	RequirementsCheckRoot      = "Project"
	RequirementsCheckSites     = "Sites"
	RequirementsCheckDriver    = "Driver"
	RequirementsCheckDatabase  = "Database"
	RequirementsCheckSettings  = "Settings"
	RequirementsCheckConfigDir = "ConfigDir"

	RequirementsRootOKFmt            = "Project manifest found: %s"
	RequirementsRootInvalidFmt       = "Project manifest %s is not valid TOML"
	RequirementsRootInvalidRecommend = "Fix or regenerate masonry.toml before installing."
	RequirementsSitesOKFmt           = "Sites directory is writable: %s"
	RequirementsSitesNotWritableFmt  = "Sites directory %s is not writable"
	RequirementsSitesRecommend       = "Fix permissions on the sites directory and re-run."
	RequirementsDriverOKFmt          = "Database driver supported: %s"
	RequirementsDriverUnknownFmt     = "Unsupported database driver %q"
	RequirementsDriverRecommend      = "Use one of: mysql, pgsql, sqlite."
	RequirementsDatabaseOKFmt        = "Database reachable: %s"
	RequirementsDatabaseFailFmt      = "Cannot reach database %s: %v"
	RequirementsDatabaseRecommend    = "Verify the server is running and --db-url credentials are correct."
	RequirementsSettingsOKFmt        = "Settings file is writable: %s"
	RequirementsSettingsFailFmt      = "Settings file %s is not writable"
	RequirementsSettingsRecommend    = "Fix permissions on settings.toml and re-run."
	RequirementsConfigDirOKFmt       = "Configuration sync directory found: %s"
	RequirementsConfigDirMissingFmt  = "Configuration sync directory %s does not exist"
	RequirementsConfigDirRecommend   = "Create the directory or pass a different --config-dir."

	StatusOKLabel   = "[OK]  "
	StatusWarnLabel = "[WARN]"
	StatusFailLabel = "[FAIL]"

	RequirementsResultLineFmt        = "%s %-10s %s\n"
	RequirementsRecommendationPrefix = "       💡 "

	StatusFieldSiteName      = "Site name"
	StatusFieldURI           = "URI"
	StatusFieldSubdir        = "Sites subdirectory"
	StatusFieldProfile       = "Install profile"
	StatusFieldSchemaVersion = "Schema version"
	StatusFieldDatabase      = "Database"
	StatusFieldConnected     = "DB connected"
	StatusFieldConfigDir     = "Config sync dir"
	StatusFieldPending       = "Pending config changes"
	StatusFieldVersion       = "Mason version"

	StatusCollectFmt = "collect site status: %w"
)
