package configsync

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/masonry-cms/mason/internal/database"
	"github.com/masonry-cms/mason/internal/messages"
)

// TableBase is the unprefixed name of the active configuration table.
const TableBase = "config"

// Store reads and writes the active configuration table.
type Store struct {
	db    *database.DB
	table string
}

// NewStore returns a store over db's config table.
func NewStore(db *database.DB) *Store {
	return &Store{db: db, table: db.TableName(TableBase)}
}

// placeholder returns the driver's placeholder for the nth statement
// argument. MySQL and SQLite take ?, PostgreSQL takes $n.
func (s *Store) placeholder(n int) string {
	if s.db.Conn().Driver == "pgsql" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// LoadAll reads every active configuration object.
func (s *Store) LoadAll(ctx context.Context) (Objects, error) {
	query := "SELECT name, data FROM " + s.db.Quote(s.table) + " ORDER BY name"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigStoreReadFmt, err)
	}
	defer rows.Close()

	objects := make(Objects)
	for rows.Next() {
		var name string
		var data []byte
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf(messages.ConfigStoreReadFmt, err)
		}
		objects[name] = data
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(messages.ConfigStoreReadFmt, err)
	}
	return objects, nil
}

// Apply writes the planned changes in a single transaction, so a failed
// import leaves the active configuration untouched.
func (s *Store) Apply(ctx context.Context, changes Changes) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf(messages.ConfigStoreWriteFmt, err)
	}
	if err := s.applyTx(ctx, tx, changes); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf(messages.ConfigStoreWriteFmt, err)
	}
	return nil
}

func (s *Store) applyTx(ctx context.Context, tx *sql.Tx, changes Changes) error {
	table := s.db.Quote(s.table)
	insert := "INSERT INTO " + table + " (name, data) VALUES (" + s.placeholder(1) + ", " + s.placeholder(2) + ")"
	update := "UPDATE " + table + " SET data = " + s.placeholder(1) + " WHERE name = " + s.placeholder(2)
	remove := "DELETE FROM " + table + " WHERE name = " + s.placeholder(1)

	for _, name := range changes.Create {
		if _, err := tx.ExecContext(ctx, insert, name, changes.incoming[name]); err != nil {
			return fmt.Errorf(messages.ConfigWriteObjectFmt, name, err)
		}
	}
	for _, name := range changes.Update {
		if _, err := tx.ExecContext(ctx, update, changes.incoming[name], name); err != nil {
			return fmt.Errorf(messages.ConfigWriteObjectFmt, name, err)
		}
	}
	for _, name := range changes.Delete {
		if _, err := tx.ExecContext(ctx, remove, name); err != nil {
			return fmt.Errorf(messages.ConfigWriteObjectFmt, name, err)
		}
	}
	return nil
}

// Seed inserts objects into an empty store outside of a diff, used by the
// installer to write a profile's default configuration.
func (s *Store) Seed(ctx context.Context, objects Objects) error {
	changes := Diff(nil, objects)
	return s.Apply(ctx, changes)
}
