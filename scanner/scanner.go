package scanner

import (
	"context"
	"fmt"

	"discord-mirror/mirror"
	"discord-mirror/models"
	"discord-mirror/utils"

	log "github.com/sirupsen/logrus"
)

// Dumper stores the latest messages of a channel.
type Dumper interface {
	Dump(ctx context.Context, channelID string, limit int) (mirror.Result, error)
}

// StartScanning backfills every configured channel that allows dumping with
// its latest messages. Channels are processed one after another and a failing
// channel does not stop the others. It returns the number of channels that
// were backfilled.
func StartScanning(ctx context.Context, d Dumper, channels []models.ChannelConfig) int {
	log.Info("Starting the startup backfill...")

	done := 0
	for _, ch := range channels {
		if ctx.Err() != nil {
			break
		}
		if !ch.DumpAllowed() {
			log.WithField("channel", ch.ID).Info("Dumping disabled, skipping channel")
			continue
		}

		result, err := d.Dump(ctx, ch.ID, mirror.MaxDumpLimit)
		if err != nil {
			utils.Error("Scanner", "backfill channel", fmt.Sprintf("Channel %s: %v", ch.ID, err))
			continue
		}
		log.WithFields(log.Fields{
			"channel":  ch.ID,
			"inserted": result.Inserted,
			"updated":  result.Updated,
		}).Info("Channel backfilled")
		done++
	}

	log.Infof("Startup backfill finished, %d/%d channels", done, len(channels))
	return done
}
