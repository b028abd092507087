// Package database opens site databases and performs the create, drop, and
// inspection operations the installer and db commands need. It is command
// glue over database/sql, not a query layer.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/masonry-cms/mason/internal/dburl"
	"github.com/masonry-cms/mason/internal/messages"
)

const pingTimeout = 10 * time.Second

// openFunc opens database handles; tests replace it.
var openFunc = sql.Open

// DB wraps a sql.DB with the connection description it was opened from.
type DB struct {
	*sql.DB
	conn *dburl.Conn
}

// Conn returns the connection description d was opened from.
func (d *DB) Conn() *dburl.Conn {
	return d.conn
}

// Open connects to the site database and verifies it responds.
func Open(ctx context.Context, conn *dburl.Conn) (*DB, error) {
	return open(ctx, conn, conn.DSN())
}

// OpenAdmin connects to the server's maintenance database, used to create or
// drop the site database.
func OpenAdmin(ctx context.Context, conn *dburl.Conn) (*DB, error) {
	dsn, err := conn.AdminDSN()
	if err != nil {
		return nil, err
	}
	return open(ctx, conn, dsn)
}

func open(ctx context.Context, conn *dburl.Conn, dsn string) (*DB, error) {
	handle, err := openFunc(conn.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf(messages.DBOpenFmt, conn.Redacted(), err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := handle.PingContext(pingCtx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf(messages.DBPingFmt, conn.Redacted(), err)
	}
	return &DB{DB: handle, conn: conn}, nil
}

// QuoteIdent quotes an SQL identifier for the given driver.
func QuoteIdent(driver string, name string) string {
	if driver == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Quote quotes an SQL identifier for d's driver.
func (d *DB) Quote(name string) string {
	return QuoteIdent(d.conn.Driver, name)
}

// TableName returns the prefixed, unquoted name of a site table.
func (d *DB) TableName(base string) string {
	return d.conn.Prefix + base
}

// escapeLike escapes LIKE wildcards in a literal prefix.
func escapeLike(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix)
}

// ListTables returns the site's tables, meaning every table matching the
// connection's name prefix. With an empty prefix it returns all tables.
func (d *DB) ListTables(ctx context.Context) ([]string, error) {
	pattern := escapeLike(d.conn.Prefix) + "%"
	var query string
	switch d.conn.Driver {
	case "mysql":
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name LIKE ? ESCAPE '\\' ORDER BY table_name`
	case "pgsql":
		query = `SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = current_schema() AND tablename LIKE $1 ESCAPE '\' ORDER BY tablename`
	default:
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name LIKE ? ESCAPE '\' ORDER BY name`
	}
	rows, err := d.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf(messages.DBListTablesFmt, d.conn.Redacted(), err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf(messages.DBListTablesFmt, d.conn.Redacted(), err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(messages.DBListTablesFmt, d.conn.Redacted(), err)
	}
	return tables, nil
}

// HasTables reports whether the site has any tables.
func (d *DB) HasTables(ctx context.Context) (bool, error) {
	tables, err := d.ListTables(ctx)
	if err != nil {
		return false, err
	}
	return len(tables) > 0, nil
}

// DropTables drops every site table and returns how many were dropped.
func (d *DB) DropTables(ctx context.Context) (int, error) {
	tables, err := d.ListTables(ctx)
	if err != nil {
		return 0, err
	}
	for _, table := range tables {
		if _, err := d.ExecContext(ctx, "DROP TABLE "+d.Quote(table)); err != nil {
			return 0, fmt.Errorf(messages.DBDropTableFmt, table, err)
		}
	}
	return len(tables), nil
}

// Exists reports whether the target database can be reached. An unknown
// database is not an error; unreachable servers and bad credentials are.
func Exists(ctx context.Context, conn *dburl.Conn) (bool, error) {
	if conn.Driver == "sqlite" {
		_, err := os.Stat(conn.Name)
		if err == nil {
			return true, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	db, err := Open(ctx, conn)
	if err == nil {
		_ = db.Close()
		return true, nil
	}
	if isUnknownDatabase(err) {
		return false, nil
	}
	return false, err
}

// isUnknownDatabase matches the driver errors for a missing database:
// MySQL ER_BAD_DB_ERROR (1049) and PostgreSQL invalid_catalog_name (3D000).
func isUnknownDatabase(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1049
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "3D000"
	}
	return false
}

// CreateDatabase creates the target database. For sqlite it creates the
// parent directory and an empty database file. Server databases are created
// through the maintenance connection, which uses superuser credentials when
// the connection carries them.
func CreateDatabase(ctx context.Context, conn *dburl.Conn) error {
	if conn.Driver == "sqlite" {
		dir := filepath.Dir(conn.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf(messages.DBSQLiteMkdirFmt, dir, err)
		}
		db, err := Open(ctx, conn)
		if err != nil {
			return err
		}
		return db.Close()
	}
	admin, err := OpenAdmin(ctx, conn)
	if err != nil {
		return err
	}
	defer admin.Close()

	stmt := "CREATE DATABASE " + admin.Quote(conn.Name)
	if conn.Driver == "mysql" {
		stmt += " CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci"
	}
	if _, err := admin.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf(messages.DBCreateDatabaseFmt, conn.Name, err)
	}
	return nil
}

// DropDatabase removes the target database. For sqlite it deletes the file;
// a missing file is not an error.
func DropDatabase(ctx context.Context, conn *dburl.Conn) error {
	if conn.Driver == "sqlite" {
		if err := os.Remove(conn.Name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf(messages.DBSQLiteRemoveFmt, conn.Name, err)
		}
		return nil
	}
	admin, err := OpenAdmin(ctx, conn)
	if err != nil {
		return err
	}
	defer admin.Close()
	if _, err := admin.ExecContext(ctx, "DROP DATABASE IF EXISTS "+admin.Quote(conn.Name)); err != nil {
		return fmt.Errorf(messages.DBDropDatabaseFmt, conn.Name, err)
	}
	return nil
}

// DropOrCreate prepares the target database for a fresh install: when it
// exists its site tables are dropped, otherwise it is created. It returns
// the number of dropped tables and whether the database was created.
func DropOrCreate(ctx context.Context, conn *dburl.Conn) (int, bool, error) {
	exists, err := Exists(ctx, conn)
	if err != nil {
		return 0, false, err
	}
	if !exists {
		if err := CreateDatabase(ctx, conn); err != nil {
			return 0, false, err
		}
		return 0, true, nil
	}
	db, err := Open(ctx, conn)
	if err != nil {
		return 0, false, err
	}
	defer db.Close()
	dropped, err := db.DropTables(ctx)
	if err != nil {
		return 0, false, err
	}
	return dropped, false, nil
}
