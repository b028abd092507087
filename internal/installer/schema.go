package installer

import (
	"context"
	"fmt"

	"github.com/masonry-cms/mason/internal/account"
	"github.com/masonry-cms/mason/internal/configsync"
	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/messages"
	"github.com/masonry-cms/mason/internal/state"
)

// SchemaVersion is stamped into the state table at install time.
const SchemaVersion = "11000"

type tableDDL struct {
	name string
	ddl  string
}

// schemaTables returns the CREATE TABLE statements for a fresh site, in
// execution order. Configuration data is stored as a blob so YAML bytes
// round-trip unchanged through every driver.
func schemaTables(db *database.DB) []tableDDL {
	blobType := "BLOB"
	uidType := "INTEGER"
	suffix := ""
	switch db.Conn().Driver {
	case "mysql":
		blobType = "LONGBLOB"
		uidType = "INT"
		suffix = " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	case "pgsql":
		blobType = "BYTEA"
	}

	configTable := db.TableName(configsync.TableBase)
	stateTable := db.TableName(state.TableBase)
	usersTable := db.TableName(account.TableBase)

	return []tableDDL{
		{configTable, "CREATE TABLE " + db.Quote(configTable) +
			" (name VARCHAR(250) NOT NULL, data " + blobType + " NOT NULL, PRIMARY KEY (name))" + suffix},
		{stateTable, "CREATE TABLE " + db.Quote(stateTable) +
			" (name VARCHAR(128) NOT NULL, value TEXT NOT NULL, PRIMARY KEY (name))" + suffix},
		{usersTable, "CREATE TABLE " + db.Quote(usersTable) +
			" (uid " + uidType + " NOT NULL, name VARCHAR(60) NOT NULL, mail VARCHAR(254) NOT NULL," +
			" pass VARCHAR(128) NOT NULL, created BIGINT NOT NULL, PRIMARY KEY (uid), UNIQUE (name))" + suffix},
	}
}

// createSchema creates the site tables and records the install in state.
func createSchema(ctx context.Context, db *database.DB, profileName string, siteUUID string, installTime string) error {
	for _, table := range schemaTables(db) {
		if _, err := db.ExecContext(ctx, table.ddl); err != nil {
			return fmt.Errorf(messages.DBCreateTableFmt, table.name, err)
		}
	}
	store := state.NewStore(db)
	return store.SetAll(ctx, map[string]string{
		state.KeySchemaVersion:  SchemaVersion,
		state.KeyInstallProfile: profileName,
		state.KeyInstallTime:    installTime,
		state.KeySiteUUID:       siteUUID,
	})
}
