package database

import (
	"context"
	"fmt"

	"discord-mirror/models"

	"github.com/jmoiron/sqlx"
)

// MessageDB handles the mirror table of one channel.
type MessageDB struct {
	db     *sqlx.DB
	table  string
	driver string
}

// NewMessageDB wraps an open connection. The table name is validated here
// since it is interpolated into every query.
func NewMessageDB(db *sqlx.DB, table string) (*MessageDB, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	return &MessageDB{db: db, table: table, driver: db.DriverName()}, nil
}

// OpenMessageDB opens a connection for one synchronization call and makes
// sure the channel's table exists.
func OpenMessageDB(ctx context.Context, cfg models.DBConfig) (*MessageDB, error) {
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mdb, err := NewMessageDB(db, cfg.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := mdb.EnsureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return mdb, nil
}

// EnsureTable creates the messages table if it doesn't exist.
func (m *MessageDB) EnsureTable(ctx context.Context) error {
	ts := datetimeType(m.driver)
	query := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS %s (
        id VARCHAR(32) NOT NULL PRIMARY KEY,
        message TEXT NOT NULL,
        author VARCHAR(255) NOT NULL,
        images TEXT NOT NULL,
        created_at %s NOT NULL,
        edited_at %s NULL,
        mentions TEXT NULL
    )%s`, m.table, ts, ts, tableOptions(m.driver))

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", m.table, err)
	}
	return nil
}

// ExistingMessages returns the stored rows among the given ids, keyed by id.
func (m *MessageDB) ExistingMessages(ctx context.Context, ids []string) (map[string]models.StoredMessage, error) {
	existing := make(map[string]models.StoredMessage, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf("SELECT id, edited_at FROM %s WHERE id IN (?)", m.table), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build message lookup: %w", err)
	}

	var rows []models.StoredMessage
	if err := m.db.SelectContext(ctx, &rows, m.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query messages from table %s: %w", m.table, err)
	}
	for _, row := range rows {
		existing[row.ID] = row
	}
	return existing, nil
}

// InsertMessage writes a new row.
func (m *MessageDB) InsertMessage(ctx context.Context, row models.MessageRow) error {
	query := fmt.Sprintf(`
    INSERT INTO %s (id, message, author, images, created_at, edited_at, mentions)
    VALUES (:id, :message, :author, :images, :created_at, :edited_at, :mentions)`, m.table)

	if _, err := m.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to insert message %s: %w", row.ID, err)
	}
	return nil
}

// UpdateMessage replaces every column of the row matched by id.
func (m *MessageDB) UpdateMessage(ctx context.Context, row models.MessageRow) error {
	query := fmt.Sprintf(`
    UPDATE %s SET message = :message, author = :author, images = :images,
        created_at = :created_at, edited_at = :edited_at, mentions = :mentions
    WHERE id = :id`, m.table)

	if _, err := m.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to update message %s: %w", row.ID, err)
	}
	return nil
}

// DeleteMessage removes a row. Deleting a missing row is not an error.
func (m *MessageDB) DeleteMessage(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", m.table)
	if _, err := m.db.ExecContext(ctx, m.db.Rebind(query), id); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	return nil
}

// Close closes the database connection.
func (m *MessageDB) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
