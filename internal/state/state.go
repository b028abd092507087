// Package state reads and writes the site's key-value state table, where the
// installer records schema version, install profile, and install time.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/messages"
)

// TableBase is the unprefixed name of the state table.
const TableBase = "state"

// Keys the installer stamps after a successful install.
const (
	KeySchemaVersion  = "system.schema_version"
	KeyInstallProfile = "system.install_profile"
	KeyInstallTime    = "system.install_time"
	KeySiteUUID       = "system.site_uuid"
)

// Store reads and writes the state table.
type Store struct {
	db    *database.DB
	table string
}

// NewStore returns a store over db's state table.
func NewStore(db *database.DB) *Store {
	return &Store{db: db, table: db.TableName(TableBase)}
}

func (s *Store) placeholder(n int) string {
	if s.db.Conn().Driver == "pgsql" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Get returns the value stored under name, or the empty string when absent.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	query := "SELECT value FROM " + s.db.Quote(s.table) + " WHERE name = " + s.placeholder(1)
	var value string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf(messages.StateReadFmt, name, err)
	}
	return value, nil
}

// Set stores value under name, replacing any previous value.
func (s *Store) Set(ctx context.Context, name string, value string) error {
	table := s.db.Quote(s.table)
	update := "UPDATE " + table + " SET value = " + s.placeholder(1) + " WHERE name = " + s.placeholder(2)
	result, err := s.db.ExecContext(ctx, update, value, name)
	if err != nil {
		return fmt.Errorf(messages.StateWriteFmt, name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf(messages.StateWriteFmt, name, err)
	}
	if affected > 0 {
		return nil
	}
	insert := "INSERT INTO " + table + " (name, value) VALUES (" + s.placeholder(1) + ", " + s.placeholder(2) + ")"
	if _, err := s.db.ExecContext(ctx, insert, name, value); err != nil {
		return fmt.Errorf(messages.StateWriteFmt, name, err)
	}
	return nil
}

// SetAll stores every entry in values, in key order.
func (s *Store) SetAll(ctx context.Context, values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.Set(ctx, name, values[name]); err != nil {
			return err
		}
	}
	return nil
}
