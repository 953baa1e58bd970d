package bot

import (
	"context"
	"fmt"
	"time"

	"discord-mirror/scanner"
	"discord-mirror/utils"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	refreshTimeout  = 10 * time.Minute
	backfillTimeout = 30 * time.Minute

	statusSaveSchedule = "@every 1m"
)

// job is one cron entry; an empty spec disables it.
type job struct {
	spec string
	run  func()
}

// newScheduler builds the cron runner. It returns nil when every job is
// disabled.
func newScheduler(jobs ...job) (*cron.Cron, error) {
	var c *cron.Cron
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		if c == nil {
			c = cron.New()
		}
		if _, err := c.AddFunc(j.spec, j.run); err != nil {
			return nil, fmt.Errorf("could not set up cron job %q: %w", j.spec, err)
		}
	}
	return c, nil
}

// refreshEvents runs one full event refresh for every configured guild.
func (b *Bot) refreshEvents() {
	log.Info("Running scheduled event refresh...")
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := b.Mirror.RefreshEvents(ctx, ""); err != nil {
		utils.Error("Scheduler", "refresh events", err.Error())
	}
}

func (b *Bot) saveStatus() {
	if b.Status == nil {
		return
	}
	if err := b.Status.Save(); err != nil {
		log.WithError(err).Warn("Failed to save status file")
	}
}

// startScheduler starts the cron jobs.
func (b *Bot) startScheduler() error {
	log.Info("Initializing scheduler...")

	statusSpec := ""
	if b.Status != nil {
		statusSpec = statusSaveSchedule
	}
	c, err := newScheduler(
		job{spec: b.Config.RefreshSchedule, run: b.refreshEvents},
		job{spec: statusSpec, run: b.saveStatus},
	)
	if err != nil {
		return err
	}
	if c != nil {
		b.cron = c
		c.Start()
	}
	if b.Config.RefreshSchedule != "" {
		log.Infof("Event refresh scheduled (%s).", b.Config.RefreshSchedule)
	} else {
		log.Info("Event refresh schedule disabled.")
	}

	// Perform an initial backfill on startup based on config.
	if b.Config.DumpAtStartup {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), backfillTimeout)
			defer cancel()
			scanner.StartScanning(ctx, b.Mirror, b.Config.Channels)
		}()
	} else {
		log.Info("Skipping startup backfill as per configuration.")
	}
	return nil
}

// stopScheduler stops the cron jobs.
func (b *Bot) stopScheduler() {
	if b.cron != nil {
		<-b.cron.Stop().Done()
		log.Info("Scheduler stopped.")
	}
}
