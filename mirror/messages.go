package mirror

import (
	"context"
	"fmt"
	"time"

	"discord-mirror/models"
	"discord-mirror/transform"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MaxDumpLimit is the largest batch /dump fetches.
const MaxDumpLimit = 100

// DecideMessage picks the action for one message given its stored row.
func DecideMessage(msg models.Message, stored models.StoredMessage, found, allowBots bool) Action {
	if msg.Author.Bot && !allowBots {
		return ActionSkip
	}
	if !found {
		return ActionInsert
	}
	if msg.EditedAt != nil && !sameInstant(*msg.EditedAt, stored.EditedAt) {
		return ActionUpdate
	}
	return ActionSkip
}

// sameInstant compares at millisecond precision, the precision of both the
// platform timestamps and the DATETIME(3) columns.
func sameInstant(edited time.Time, stored *time.Time) bool {
	if stored == nil {
		return false
	}
	return edited.Truncate(time.Millisecond).Equal(stored.Truncate(time.Millisecond))
}

// StoreMessages reconciles a batch of messages of one channel against its
// table. Every write is attempted; the first failure is returned after all
// of them finished and already applied writes stay in place.
func (m *Mirror) StoreMessages(ctx context.Context, msgs []models.Message, cfg models.ChannelConfig) (Result, error) {
	var result Result
	if len(msgs) == 0 {
		return result, nil
	}

	store, err := m.stores.OpenMessages(ctx, cfg.DB)
	if err != nil {
		return result, fmt.Errorf("failed to open store for channel %s: %w", cfg.ID, err)
	}
	defer store.Close()

	ids := make([]string, len(msgs))
	for i, msg := range msgs {
		ids[i] = msg.ID
	}
	existing, err := store.ExistingMessages(ctx, ids)
	if err != nil {
		return result, err
	}

	var g errgroup.Group
	for _, msg := range msgs {
		stored, found := existing[msg.ID]
		action := DecideMessage(msg, stored, found, cfg.AllowBots)
		result.count(action)
		if action == ActionSkip {
			continue
		}

		g.Go(func() error {
			row, err := transform.Prepare(msg, cfg)
			if err != nil {
				return err
			}
			if action == ActionInsert {
				return store.InsertMessage(ctx, row)
			}
			return store.UpdateMessage(ctx, row)
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	log.WithFields(log.Fields{
		"channel":  cfg.ID,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
	}).Info("Messages synchronized")
	m.record("channel", cfg.ID, cfg.DB, result)
	return result, nil
}

// DeleteMessage removes the row of a deleted message.
func (m *Mirror) DeleteMessage(ctx context.Context, id string, cfg models.ChannelConfig) error {
	store, err := m.stores.OpenMessages(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open store for channel %s: %w", cfg.ID, err)
	}
	defer store.Close()

	if err := store.DeleteMessage(ctx, id); err != nil {
		return err
	}
	log.WithFields(log.Fields{"channel": cfg.ID, "message": id}).Info("Message deleted")
	return nil
}

// Dump stores the latest messages of a configured channel. A limit outside
// 1..MaxDumpLimit means MaxDumpLimit.
func (m *Mirror) Dump(ctx context.Context, channelID string, limit int) (Result, error) {
	cfg, ok := m.config.ChannelConfig(channelID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", models.ErrChannelNotConfigured, channelID)
	}
	if !cfg.DumpAllowed() {
		return Result{}, fmt.Errorf("%w: %s", models.ErrDumpDisabled, channelID)
	}

	if limit <= 0 || limit > MaxDumpLimit {
		limit = MaxDumpLimit
	}
	msgs, err := m.platform.ChannelMessages(ctx, channelID, limit)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch messages of channel %s: %w", channelID, err)
	}
	return m.StoreMessages(ctx, msgs, cfg)
}
