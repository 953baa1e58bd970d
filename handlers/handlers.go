package handlers

import (
	"context"

	"discord-mirror/bot"
	"discord-mirror/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HealthReporter receives the gateway connection state.
type HealthReporter interface {
	SetServing(serving bool)
}

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	gw := NewGateway(b.Config, b.Mirror, b.Client)
	dispatcher := NewCommandDispatcher(b.Auth, b.Mirror)

	var health HealthReporter
	if b.Health != nil {
		health = b.Health
	}

	b.Session.AddHandler(InteractionCreate(dispatcher))
	b.Session.AddHandler(gw.MessageCreate)
	b.Session.AddHandler(gw.MessageUpdate)
	b.Session.AddHandler(gw.MessageDelete)
	b.Session.AddHandler(gw.ScheduledEventCreate)
	b.Session.AddHandler(gw.ScheduledEventUpdate)
	b.Session.AddHandler(gw.ScheduledEventDelete)
	b.Session.AddHandler(Ready(b.Config.Playing, health, b.Mirror))
	b.Session.AddHandler(Resumed(health))
	b.Session.AddHandler(Disconnect(health))
}

// Ready sets the presence, reports healthy and runs the initial event refresh.
func Ready(playing string, health HealthReporter, m Mirror) func(s *discordgo.Session, r *discordgo.Ready) {
	return func(s *discordgo.Session, r *discordgo.Ready) {
		if r.User != nil {
			log.Infof("Logged in as: %v#%v", r.User.Username, r.User.Discriminator)
		}

		if playing != "" {
			if err := s.UpdateGameStatus(0, playing); err != nil {
				log.WithError(err).Warn("Failed to set presence")
			}
		}
		if health != nil {
			health.SetServing(true)
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		if err := m.RefreshEvents(ctx, ""); err != nil {
			utils.Error("Gateway", "refresh events", err.Error())
		}
	}
}

// Resumed reports healthy again after a reconnect that resumed the session.
// The gateway sends no Ready in that case.
func Resumed(health HealthReporter) func(s *discordgo.Session, r *discordgo.Resumed) {
	return func(s *discordgo.Session, r *discordgo.Resumed) {
		log.Info("Gateway session resumed")
		if health != nil {
			health.SetServing(true)
		}
	}
}

// Disconnect reports unhealthy until the session is ready or resumed.
func Disconnect(health HealthReporter) func(s *discordgo.Session, d *discordgo.Disconnect) {
	return func(s *discordgo.Session, d *discordgo.Disconnect) {
		log.Warn("Gateway disconnected")
		if health != nil {
			health.SetServing(false)
		}
	}
}
