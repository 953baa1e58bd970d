package database

import (
	"context"
	"fmt"

	"discord-mirror/models"

	"github.com/jmoiron/sqlx"
)

// EventDB handles the scheduled event table of one guild.
type EventDB struct {
	db     *sqlx.DB
	table  string
	driver string
}

// NewEventDB wraps an open connection.
func NewEventDB(db *sqlx.DB, table string) (*EventDB, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	return &EventDB{db: db, table: table, driver: db.DriverName()}, nil
}

// OpenEventDB opens a connection for one synchronization call and makes sure
// the guild's table exists.
func OpenEventDB(ctx context.Context, cfg models.DBConfig) (*EventDB, error) {
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	edb, err := NewEventDB(db, cfg.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := edb.EnsureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return edb, nil
}

// EnsureTable creates the events table if it doesn't exist.
func (e *EventDB) EnsureTable(ctx context.Context) error {
	ts := datetimeType(e.driver)
	query := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS %s (
        id VARCHAR(32) NOT NULL PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        description TEXT NOT NULL,
        creator VARCHAR(255) NOT NULL,
        location VARCHAR(255) NULL,
        image VARCHAR(255) NULL,
        starts_at %s NOT NULL,
        ends_at %s NULL
    )%s`, e.table, ts, ts, tableOptions(e.driver))

	if _, err := e.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", e.table, err)
	}
	return nil
}

// EventIDs returns the stored ids among the given ones.
func (e *EventDB) EventIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT id FROM %s WHERE id IN (?)", e.table), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build event lookup: %w", err)
	}

	var stored []string
	if err := e.db.SelectContext(ctx, &stored, e.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query events from table %s: %w", e.table, err)
	}
	return stored, nil
}

// AllEventIDs returns every id stored in the table.
func (e *EventDB) AllEventIDs(ctx context.Context) ([]string, error) {
	var stored []string
	if err := e.db.SelectContext(ctx, &stored, fmt.Sprintf("SELECT id FROM %s", e.table)); err != nil {
		return nil, fmt.Errorf("failed to query events from table %s: %w", e.table, err)
	}
	return stored, nil
}

// InsertEvent writes a new row.
func (e *EventDB) InsertEvent(ctx context.Context, row models.EventRow) error {
	query := fmt.Sprintf(`
    INSERT INTO %s (id, name, description, creator, location, image, starts_at, ends_at)
    VALUES (:id, :name, :description, :creator, :location, :image, :starts_at, :ends_at)`, e.table)

	if _, err := e.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to insert event %s: %w", row.ID, err)
	}
	return nil
}

// UpdateEvent replaces every column of the row matched by id.
func (e *EventDB) UpdateEvent(ctx context.Context, row models.EventRow) error {
	query := fmt.Sprintf(`
    UPDATE %s SET name = :name, description = :description, creator = :creator,
        location = :location, image = :image, starts_at = :starts_at, ends_at = :ends_at
    WHERE id = :id`, e.table)

	if _, err := e.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to update event %s: %w", row.ID, err)
	}
	return nil
}

// DeleteEvent removes a row. Deleting a missing row is not an error.
func (e *EventDB) DeleteEvent(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", e.table)
	if _, err := e.db.ExecContext(ctx, e.db.Rebind(query), id); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}

// Close closes the database connection.
func (e *EventDB) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}
