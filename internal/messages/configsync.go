package messages

// Configuration sync messages.
const (
	// ConfigImportUse is the config import command usage.
	ConfigImportUse   = "import"
	ConfigImportShort = "Import configuration from the sync directory into the site"
	// ConfigExportUse is the config export command usage.
	ConfigExportUse   = "export"
	ConfigExportShort = "Export site configuration to the sync directory"

	ConfigFlagDir     = "Configuration sync directory (defaults to the site's config/sync)"
	ConfigFlagPreview = "Show the pending changes without applying them"

	ConfigSyncDirMissingFmt = "configuration sync directory %s does not exist"
	ConfigSyncDirEmptyFmt   = "configuration sync directory %s contains no configuration"
	ConfigInvalidNameFmt    = "invalid configuration name %q"
	ConfigReadObjectFmt     = "read configuration %s: %w"
	ConfigWriteObjectFmt    = "write configuration %s: %w"
	ConfigDecodeObjectFmt   = "decode configuration %s: %w"
	ConfigEncodeObjectFmt   = "encode configuration %s: %w"
	ConfigStoreReadFmt      = "read active configuration: %w"
	ConfigStoreWriteFmt     = "write active configuration: %w"
	ConfigUUIDMismatchFmt   = "site UUID in %s (%s) does not match the installed site (%s); this configuration belongs to a different site"
	ConfigUUIDMissingFmt    = "configuration in %s has no system.site UUID"

	ConfigNoChanges        = "No configuration changes to import.\n"
	ConfigNothingToExport  = "No active configuration to export.\n"
	ConfigImportSummaryFmt = "Importing %d new, %d changed, %d removed configuration objects.\n"
	ConfigImportPrompt     = "Import the listed configuration changes?"
	ConfigImportAborted    = "configuration import aborted"
	ConfigImportedFmt      = "Imported %d configuration objects.\n"
	ConfigExportedFmt      = "Exported %d configuration objects to %s.\n"
)
