// Package mirror reconciles live platform objects against their stored rows.
package mirror

import (
	"context"

	"discord-mirror/database"
	"discord-mirror/models"
)

// MessageStore is the mirror table of one channel.
type MessageStore interface {
	ExistingMessages(ctx context.Context, ids []string) (map[string]models.StoredMessage, error)
	InsertMessage(ctx context.Context, row models.MessageRow) error
	UpdateMessage(ctx context.Context, row models.MessageRow) error
	DeleteMessage(ctx context.Context, id string) error
	Close() error
}

// EventStore is the event table of one guild.
type EventStore interface {
	EventIDs(ctx context.Context, ids []string) ([]string, error)
	AllEventIDs(ctx context.Context) ([]string, error)
	InsertEvent(ctx context.Context, row models.EventRow) error
	UpdateEvent(ctx context.Context, row models.EventRow) error
	DeleteEvent(ctx context.Context, id string) error
	Close() error
}

// Stores opens a store for a single synchronization call.
type Stores interface {
	OpenMessages(ctx context.Context, cfg models.DBConfig) (MessageStore, error)
	OpenEvents(ctx context.Context, cfg models.DBConfig) (EventStore, error)
}

// Platform is what the mirror needs from the chat platform client.
type Platform interface {
	User(ctx context.Context, userID string) (models.User, error)
	ScheduledEvents(ctx context.Context, guildID string) ([]models.Event, error)
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]models.Message, error)
}

// SQLStores opens stores backed by the database package.
type SQLStores struct{}

func (SQLStores) OpenMessages(ctx context.Context, cfg models.DBConfig) (MessageStore, error) {
	return database.OpenMessageDB(ctx, cfg)
}

func (SQLStores) OpenEvents(ctx context.Context, cfg models.DBConfig) (EventStore, error) {
	return database.OpenEventDB(ctx, cfg)
}

// Action is the write a synchronization pass performs for one object.
type Action int

const (
	ActionSkip Action = iota
	ActionInsert
	ActionUpdate
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	default:
		return "skip"
	}
}

// Result counts what a synchronization pass did.
type Result struct {
	Inserted int
	Updated  int
	Skipped  int
	Deleted  int
}

func (r *Result) count(a Action) {
	switch a {
	case ActionInsert:
		r.Inserted++
	case ActionUpdate:
		r.Updated++
	default:
		r.Skipped++
	}
}

// StatusRecorder receives the outcome of every successful synchronization.
type StatusRecorder interface {
	Record(status models.SyncStatus)
}

// Mirror synchronizes messages and scheduled events. The configuration is
// read-only after construction.
type Mirror struct {
	config   *models.BotConfig
	stores   Stores
	platform Platform
	recorder StatusRecorder
}

// New creates a Mirror.
func New(config *models.BotConfig, stores Stores, platform Platform) *Mirror {
	return &Mirror{config: config, stores: stores, platform: platform}
}

// SetRecorder attaches a status recorder. It must be called before the
// mirror is used.
func (m *Mirror) SetRecorder(r StatusRecorder) {
	m.recorder = r
}

func (m *Mirror) record(kind, id string, db models.DBConfig, r Result) {
	if m.recorder == nil {
		return
	}
	m.recorder.Record(models.SyncStatus{
		Kind:     kind,
		ID:       id,
		Table:    db.Table,
		Inserted: r.Inserted,
		Updated:  r.Updated,
		Skipped:  r.Skipped,
		Deleted:  r.Deleted,
	})
}
