package mirror

import (
	"context"
	"testing"
	"time"

	"discord-mirror/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creator = models.User{ID: "u1", Username: "bob", Discriminator: "1234"}

func eventConfig() models.EventConfig {
	return models.EventConfig{
		Guild:       "g1",
		DB:          models.DBConfig{Table: "events"},
		CreatorMode: models.CreatorTag,
	}
}

func newEventMirror(store *fakeEventStore, platform *fakePlatform) *Mirror {
	stores := &fakeStores{events: map[string]*fakeEventStore{"events": store}}
	if platform == nil {
		platform = &fakePlatform{}
	}
	if platform.users == nil {
		platform.users = map[string]models.User{creator.ID: creator}
	}
	cfg := &models.BotConfig{Events: []models.EventConfig{eventConfig()}}
	return New(cfg, stores, platform)
}

func event(id string, status models.EventStatus) models.Event {
	return models.Event{
		ID:        id,
		GuildID:   "g1",
		Name:      "Event " + id,
		CreatorID: creator.ID,
		StartsAt:  time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func TestDecideEvent(t *testing.T) {
	assert.Equal(t, ActionInsert, DecideEvent(event("1", models.EventStatusScheduled), false))
	assert.Equal(t, ActionInsert, DecideEvent(event("1", models.EventStatusActive), false))
	assert.Equal(t, ActionUpdate, DecideEvent(event("1", models.EventStatusActive), true))
	assert.Equal(t, ActionSkip, DecideEvent(event("1", models.EventStatusCompleted), true))
	assert.Equal(t, ActionSkip, DecideEvent(event("1", models.EventStatusCanceled), false))
}

func TestExpiredIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "3"}, ExpiredIDs([]string{"1", "2", "3"}, map[string]bool{"2": true, "4": true}))
	assert.Empty(t, ExpiredIDs([]string{"1"}, map[string]bool{"1": true}))
	assert.Equal(t, []string{"1", "2"}, ExpiredIDs([]string{"1", "2"}, nil))
}

func TestCreatorDisplay(t *testing.T) {
	for mode, want := range map[models.CreatorMode]string{
		models.CreatorID:       "u1",
		models.CreatorUsername: "bob",
		models.CreatorTag:      "bob#1234",
	} {
		got, err := CreatorDisplay(creator, mode)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := CreatorDisplay(creator, 7)
	assert.ErrorIs(t, err, models.ErrInvalidMode)
}

func TestStoreEventsInsertAndUpdate(t *testing.T) {
	store := newFakeEventStore("2")
	m := newEventMirror(store, nil)

	ends := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	first := event("1", models.EventStatusScheduled)
	first.Location = "Town hall"
	first.Image = "abc123"
	first.EndsAt = &ends

	result, err := m.StoreEvents(context.Background(), []models.Event{first, event("2", models.EventStatusActive)}, eventConfig(), false)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 1, Updated: 1}, result)
	assert.Equal(t, []string{"insert:1", "update:2"}, store.sortedWrites())
	assert.True(t, store.closed)

	row := store.rows["1"]
	assert.Equal(t, "bob#1234", row.Creator)
	require.NotNil(t, row.Location)
	assert.Equal(t, "Town hall", *row.Location)
	require.NotNil(t, row.Image)
	assert.Equal(t, "abc123", *row.Image)
	require.NotNil(t, row.EndsAt)
	assert.True(t, row.EndsAt.Equal(ends))

	assert.Nil(t, store.rows["2"].Location)
	assert.Nil(t, store.rows["2"].EndsAt)
}

func TestStoreEventsCompletedEventIsRemoved(t *testing.T) {
	store := newFakeEventStore("1", "5")
	m := newEventMirror(store, nil)

	result, err := m.StoreEvents(context.Background(), []models.Event{event("1", models.EventStatusCompleted)}, eventConfig(), false)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1, Deleted: 1}, result)
	assert.NotContains(t, store.rows, "1")
	assert.Contains(t, store.rows, "5", "rows outside the batch are untouched without cleanup")
}

func TestStoreEventsInactiveUnknownEventIsIgnored(t *testing.T) {
	store := newFakeEventStore()
	m := newEventMirror(store, nil)

	result, err := m.StoreEvents(context.Background(), []models.Event{event("1", models.EventStatusCanceled)}, eventConfig(), false)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, result)
	assert.Empty(t, store.writes)
}

func TestStoreEventsCleanupSweep(t *testing.T) {
	store := newFakeEventStore("9", "10")
	m := newEventMirror(store, nil)

	result, err := m.StoreEvents(context.Background(), []models.Event{event("10", models.EventStatusActive)}, eventConfig(), true)
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 1, Deleted: 1}, result)
	assert.NotContains(t, store.rows, "9")
	assert.Contains(t, store.rows, "10")
}

func TestStoreEventsCleanupDrainsToEmpty(t *testing.T) {
	store := newFakeEventStore("1", "2", "3")
	m := newEventMirror(store, nil)

	result, err := m.StoreEvents(context.Background(), nil, eventConfig(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Deleted)
	assert.Empty(t, store.rows)
}

func TestStoreEventsFailureSkipsSweep(t *testing.T) {
	store := newFakeEventStore("1", "2")
	store.failIDs["2"] = true
	m := newEventMirror(store, nil)

	_, err := m.StoreEvents(context.Background(), []models.Event{event("2", models.EventStatusActive)}, eventConfig(), true)
	assert.ErrorIs(t, err, errWrite)
	assert.Contains(t, store.rows, "1", "sweep must not run after a failed write")
}

func TestStoreEventsCreatorFetchFailure(t *testing.T) {
	store := newFakeEventStore()
	m := newEventMirror(store, &fakePlatform{users: map[string]models.User{}})

	_, err := m.StoreEvents(context.Background(), []models.Event{event("1", models.EventStatusActive)}, eventConfig(), false)
	assert.Error(t, err)
	assert.Empty(t, store.rows)
}

func TestStoreEventsWithoutCreator(t *testing.T) {
	store := newFakeEventStore("9")
	m := newEventMirror(store, &fakePlatform{users: map[string]models.User{}})

	ev := event("1", models.EventStatusScheduled)
	ev.CreatorID = ""
	result, err := m.StoreEvents(context.Background(), []models.Event{ev}, eventConfig(), true)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 1, Deleted: 1}, result)
	require.Contains(t, store.rows, "1")
	assert.Empty(t, store.rows["1"].Creator)
	assert.NotContains(t, store.rows, "9")
}

func TestDeleteEvent(t *testing.T) {
	store := newFakeEventStore("1")
	m := newEventMirror(store, nil)

	require.NoError(t, m.DeleteEvent(context.Background(), "1", eventConfig()))
	assert.Empty(t, store.rows)
}

func TestRefreshEvents(t *testing.T) {
	store := newFakeEventStore("old")
	platform := &fakePlatform{events: map[string][]models.Event{
		"g1": {event("new", models.EventStatusScheduled)},
	}}
	m := newEventMirror(store, platform)

	require.NoError(t, m.RefreshEvents(context.Background(), ""))
	assert.Equal(t, []string{"delete:old", "insert:new"}, store.sortedWrites())

	require.NoError(t, m.RefreshEvents(context.Background(), "g1"))
	assert.ErrorIs(t, m.RefreshEvents(context.Background(), "g2"), models.ErrGuildNotConfigured)
}
