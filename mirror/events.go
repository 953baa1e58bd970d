package mirror

import (
	"context"
	"fmt"

	"discord-mirror/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DecideEvent picks the action for one event. Only active or scheduled
// events are written; everything else is left to the expiry sweep.
func DecideEvent(ev models.Event, found bool) Action {
	switch {
	case !ev.Status.Active():
		return ActionSkip
	case found:
		return ActionUpdate
	default:
		return ActionInsert
	}
}

// ExpiredIDs returns the stored ids that were not confirmed active, in
// stored order.
func ExpiredIDs(stored []string, active map[string]bool) []string {
	var expired []string
	for _, id := range stored {
		if !active[id] {
			expired = append(expired, id)
		}
	}
	return expired
}

// CreatorDisplay renders an event creator per mode.
func CreatorDisplay(u models.User, mode models.CreatorMode) (string, error) {
	switch mode {
	case models.CreatorID:
		return u.ID, nil
	case models.CreatorUsername:
		return u.Username, nil
	case models.CreatorTag:
		return u.Tag(), nil
	}
	return "", fmt.Errorf("%w: creatorMode %d", models.ErrInvalidMode, mode)
}

// creator renders the creator of ev. Events without a creator, such as old
// or integration-created ones, store an empty creator.
func (m *Mirror) creator(ctx context.Context, ev models.Event, mode models.CreatorMode) (string, error) {
	if ev.CreatorID == "" {
		return "", nil
	}
	u, err := m.platform.User(ctx, ev.CreatorID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch creator %s of event %s: %w", ev.CreatorID, ev.ID, err)
	}
	return CreatorDisplay(u, mode)
}

// eventRow builds the stored row of an event.
func eventRow(ev models.Event, creator string) models.EventRow {
	row := models.EventRow{
		ID:          ev.ID,
		Name:        ev.Name,
		Description: ev.Description,
		Creator:     creator,
		StartsAt:    ev.StartsAt.UTC(),
	}
	if ev.Location != "" {
		location := ev.Location
		row.Location = &location
	}
	if ev.Image != "" {
		image := ev.Image
		row.Image = &image
	}
	if ev.EndsAt != nil {
		ends := ev.EndsAt.UTC()
		row.EndsAt = &ends
	}
	return row
}

// StoreEvents reconciles a batch of scheduled events of one guild against its
// table. With cleanup set every stored row is a deletion candidate, which is
// how a full refresh drops events that no longer exist; otherwise only rows of
// the batch are.
func (m *Mirror) StoreEvents(ctx context.Context, events []models.Event, cfg models.EventConfig, cleanup bool) (Result, error) {
	var result Result
	if len(events) == 0 && !cleanup {
		return result, nil
	}

	store, err := m.stores.OpenEvents(ctx, cfg.DB)
	if err != nil {
		return result, fmt.Errorf("failed to open store for guild %s: %w", cfg.Guild, err)
	}
	defer store.Close()

	var stored []string
	if cleanup {
		stored, err = store.AllEventIDs(ctx)
	} else {
		ids := make([]string, len(events))
		for i, ev := range events {
			ids[i] = ev.ID
		}
		stored, err = store.EventIDs(ctx, ids)
	}
	if err != nil {
		return result, err
	}

	found := make(map[string]bool, len(stored))
	for _, id := range stored {
		found[id] = true
	}

	active := make(map[string]bool, len(events))
	var g errgroup.Group
	for _, ev := range events {
		action := DecideEvent(ev, found[ev.ID])
		result.count(action)
		if action == ActionSkip {
			continue
		}
		active[ev.ID] = true

		g.Go(func() error {
			display, err := m.creator(ctx, ev, cfg.CreatorMode)
			if err != nil {
				return err
			}
			row := eventRow(ev, display)
			if action == ActionInsert {
				return store.InsertEvent(ctx, row)
			}
			return store.UpdateEvent(ctx, row)
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	expired := ExpiredIDs(stored, active)
	var sweep errgroup.Group
	for _, id := range expired {
		sweep.Go(func() error {
			return store.DeleteEvent(ctx, id)
		})
	}
	if err := sweep.Wait(); err != nil {
		return result, err
	}
	result.Deleted = len(expired)

	log.WithFields(log.Fields{
		"guild":    cfg.Guild,
		"cleanup":  cleanup,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
		"deleted":  result.Deleted,
	}).Info("Events synchronized")
	m.record("events", cfg.Guild, cfg.DB, result)
	return result, nil
}

// DeleteEvent removes the row of a deleted event.
func (m *Mirror) DeleteEvent(ctx context.Context, id string, cfg models.EventConfig) error {
	store, err := m.stores.OpenEvents(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open store for guild %s: %w", cfg.Guild, err)
	}
	defer store.Close()

	if err := store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	log.WithFields(log.Fields{"guild": cfg.Guild, "event": id}).Info("Event deleted")
	return nil
}

// RefreshEvents runs a full cleanup pass for every configured guild, or for
// guildID alone when it is not empty.
func (m *Mirror) RefreshEvents(ctx context.Context, guildID string) error {
	var configs []models.EventConfig
	if guildID != "" {
		cfg, ok := m.config.EventConfig(guildID)
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrGuildNotConfigured, guildID)
		}
		configs = append(configs, cfg)
	} else {
		configs = m.config.Events
	}

	var g errgroup.Group
	for _, cfg := range configs {
		g.Go(func() error {
			events, err := m.platform.ScheduledEvents(ctx, cfg.Guild)
			if err != nil {
				return fmt.Errorf("failed to fetch scheduled events of guild %s: %w", cfg.Guild, err)
			}
			_, err = m.StoreEvents(ctx, events, cfg, true)
			return err
		})
	}
	return g.Wait()
}
