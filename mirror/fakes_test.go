package mirror

import (
	"context"
	"errors"
	"sort"
	"sync"

	"discord-mirror/models"
)

var errWrite = errors.New("write failed")

type fakeMessageStore struct {
	mu      sync.Mutex
	rows    map[string]models.MessageRow
	failIDs map[string]bool
	queries int
	writes  []string
	closed  bool
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{rows: map[string]models.MessageRow{}, failIDs: map[string]bool{}}
}

func (f *fakeMessageStore) ExistingMessages(_ context.Context, ids []string) (map[string]models.StoredMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	out := map[string]models.StoredMessage{}
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			out[id] = models.StoredMessage{ID: id, EditedAt: row.EditedAt}
		}
	}
	return out, nil
}

func (f *fakeMessageStore) write(op string, row models.MessageRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[row.ID] {
		return errWrite
	}
	f.writes = append(f.writes, op+":"+row.ID)
	f.rows[row.ID] = row
	return nil
}

func (f *fakeMessageStore) InsertMessage(_ context.Context, row models.MessageRow) error {
	return f.write("insert", row)
}

func (f *fakeMessageStore) UpdateMessage(_ context.Context, row models.MessageRow) error {
	return f.write("update", row)
}

func (f *fakeMessageStore) DeleteMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, "delete:"+id)
	delete(f.rows, id)
	return nil
}

func (f *fakeMessageStore) Close() error {
	f.closed = true
	return nil
}

func (f *fakeMessageStore) sortedWrites() []string {
	out := append([]string(nil), f.writes...)
	sort.Strings(out)
	return out
}

type fakeEventStore struct {
	mu      sync.Mutex
	rows    map[string]models.EventRow
	failIDs map[string]bool
	writes  []string
	closed  bool
}

func newFakeEventStore(ids ...string) *fakeEventStore {
	f := &fakeEventStore{rows: map[string]models.EventRow{}, failIDs: map[string]bool{}}
	for _, id := range ids {
		f.rows[id] = models.EventRow{ID: id}
	}
	return f
}

func (f *fakeEventStore) EventIDs(_ context.Context, ids []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, id := range ids {
		if _, ok := f.rows[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeEventStore) AllEventIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for id := range f.rows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeEventStore) write(op string, row models.EventRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[row.ID] {
		return errWrite
	}
	f.writes = append(f.writes, op+":"+row.ID)
	f.rows[row.ID] = row
	return nil
}

func (f *fakeEventStore) InsertEvent(_ context.Context, row models.EventRow) error {
	return f.write("insert", row)
}

func (f *fakeEventStore) UpdateEvent(_ context.Context, row models.EventRow) error {
	return f.write("update", row)
}

func (f *fakeEventStore) DeleteEvent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, "delete:"+id)
	delete(f.rows, id)
	return nil
}

func (f *fakeEventStore) Close() error {
	f.closed = true
	return nil
}

func (f *fakeEventStore) sortedWrites() []string {
	out := append([]string(nil), f.writes...)
	sort.Strings(out)
	return out
}

// fakeStores hands out the same store for every call, keyed by table.
type fakeStores struct {
	messages map[string]*fakeMessageStore
	events   map[string]*fakeEventStore
	opened   int
}

func (f *fakeStores) OpenMessages(_ context.Context, cfg models.DBConfig) (MessageStore, error) {
	f.opened++
	return f.messages[cfg.Table], nil
}

func (f *fakeStores) OpenEvents(_ context.Context, cfg models.DBConfig) (EventStore, error) {
	f.opened++
	store, ok := f.events[cfg.Table]
	if !ok {
		return nil, errors.New("no such table")
	}
	return store, nil
}

type fakePlatform struct {
	users    map[string]models.User
	events   map[string][]models.Event
	messages map[string][]models.Message
	limits   []int
}

func (f *fakePlatform) User(_ context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, errors.New("unknown user")
	}
	return u, nil
}

func (f *fakePlatform) ScheduledEvents(_ context.Context, guildID string) ([]models.Event, error) {
	return f.events[guildID], nil
}

func (f *fakePlatform) ChannelMessages(_ context.Context, channelID string, limit int) ([]models.Message, error) {
	f.limits = append(f.limits, limit)
	msgs := f.messages[channelID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}
