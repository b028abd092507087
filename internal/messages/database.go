package messages

// Database and connection URL messages.
const (
	DBURLEmpty          = "database URL is empty"
	DBURLUnsupportedFmt = "unsupported database driver %q (supported: mysql, pgsql, sqlite)"
	DBURLMissingNameFmt = "database URL %s has no database name"
	DBURLMissingHostFmt = "database URL %s has no host"
	DBURLParseFmt       = "parse database URL: %w"
	DBURLInvalidPortFmt = "invalid port %q in database URL"

	DBOpenFmt           = "open database %s: %w"
	DBPingFmt           = "connect to database %s: %w"
	DBListTablesFmt     = "list tables in %s: %w"
	DBCreateTableFmt    = "create table %s: %w"
	DBDropTableFmt      = "drop table %s: %w"
	DBCreateDatabaseFmt = "create database %s: %w"
	DBDropDatabaseFmt   = "drop database %s: %w"
	DBSQLiteMkdirFmt    = "create sqlite directory %s: %w"
	DBSQLiteRemoveFmt   = "remove sqlite database %s: %w"
	DBNoAdminForSQLite  = "sqlite databases have no server to administer"

	StateReadFmt  = "read state %s: %w"
	StateWriteFmt = "write state %s: %w"

	// DBCreateUse is the db create command usage.
	DBCreateUse   = "create"
	DBCreateShort = "Create the site database, using superuser credentials when given"
	// DBDropUse is the db drop command usage.
	DBDropUse   = "drop"
	DBDropShort = "Drop all site tables"
	// DBStatusUse is the db status command usage.
	DBStatusUse   = "status"
	DBStatusShort = "Check database connectivity and list site tables"

	DBConfirmDropTablesFmt = "Drop %d tables with prefix %q in database %s?"
	DBDropAborted          = "database drop aborted"
	DBDropNothingFmt       = "No tables with prefix %q in database %s.\n"
	DBDroppedFmt           = "Dropped %d tables from %s.\n"
	DBCreatedFmt           = "Created database %s.\n"
	DBStatusConnectedFmt   = "Connected to %s (%d site tables).\n"
)
