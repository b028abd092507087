package messages

// System messages for internal operations.
const (
	// SettingsInvalidKeyFmt indicates a malformed dotted settings key.
	SettingsInvalidKeyFmt = "invalid settings key %q: keys are non-empty dot-separated segments"
	SettingsReadFmt       = "read %s: %w"
	SettingsParseFmt      = "parse %s: %w"
	SettingsWriteFmt      = "write %s: %w"
	SettingsNotTOMLFmt    = "%s is not valid TOML: %w"

	SettingsBoolRequiredFmt        = "%s must be true or false"
	SettingsPositiveIntRequiredFmt = "%s must be a positive integer"
	SettingsEnumRequiredFmt        = "%s must be one of: %s"

	SettingsDBDriverMissingFmt = "%s: database.driver is not set"
	SettingsDBDriverUnknownFmt = "%s: unsupported database.driver %q"
	SettingsDBHostRequiredFmt  = "%s: database.host is required for driver %q"
	SettingsDBPortRangeFmt     = "%s: database.port %d is out of range"
	SettingsDBUserRequiredFmt  = "%s: database.user is required for driver %q"
	SettingsDBNameMissingFmt   = "%s: database.name is not set"

	SitesSubdirInvalidFmt = "cannot derive a sites directory from %q"
	SitesCreateDirFmt     = "failed to create directory %s: %w"
	SitesRegistryFmt      = "parse sites registry %s: %w"
	ManifestParseFmt      = "parse project manifest %s: %w"

	EnvFileReadFmt  = "read env file %s: %w"
	EnvFileWriteFmt = "write env file %s: %w"

	AccountNameEmpty      = "account name is empty"
	AccountNameTooLongFmt = "account name exceeds %d characters"
	AccountNameInvalid    = "account name must not contain control characters or leading/trailing spaces"
	AccountHashFmt        = "hash password: %w"
	AccountCreateFmt      = "create account %s: %w"

	ProfileReadFmt       = "read profile %s: %w"
	ProfileExtensionsFmt = "read core.extension from %s: %w"

	UpdateRequestFmt           = "create release request: %w"
	UpdateFetchFmt             = "fetch latest release: %w"
	UpdateFetchStatusFmt       = "fetch latest release: unexpected status %s"
	UpdateDecodeFmt            = "decode latest release: %w"
	UpdateMissingTag           = "latest release has no tag name"
	UpdateBadTagFmt            = "invalid latest release tag %q: %w"
	UpdateBadCurrentVersionFmt = "invalid current version %q: %w"
	UpdateRateLimitedFmt       = "github api rate limit exceeded (%s, remaining=%s)"

	McpServerFailedFmt = "mcp server: %w"
)
