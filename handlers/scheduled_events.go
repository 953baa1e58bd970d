package handlers

import (
	"context"
	"fmt"

	"discord-mirror/discord"
	"discord-mirror/models"
	"discord-mirror/utils"

	"github.com/bwmarrin/discordgo"
)

func (g *Gateway) storeEvent(ev *discordgo.GuildScheduledEvent) {
	if ev == nil {
		return
	}
	cfg, ok := g.config.EventConfig(ev.GuildID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if _, err := g.mirror.StoreEvents(ctx, []models.Event{discord.ConvertEvent(ev)}, cfg, false); err != nil {
		utils.Error("Gateway", "store event", fmt.Sprintf("Event %s in %s: %v", ev.ID, ev.GuildID, err))
	}
}

// ScheduledEventCreate mirrors new scheduled events.
func (g *Gateway) ScheduledEventCreate(s *discordgo.Session, e *discordgo.GuildScheduledEventCreate) {
	g.storeEvent(e.GuildScheduledEvent)
}

// ScheduledEventUpdate mirrors changes; events that ended or were canceled
// are removed by the synchronizer.
func (g *Gateway) ScheduledEventUpdate(s *discordgo.Session, e *discordgo.GuildScheduledEventUpdate) {
	g.storeEvent(e.GuildScheduledEvent)
}

// ScheduledEventDelete removes the row of a deleted event.
func (g *Gateway) ScheduledEventDelete(s *discordgo.Session, e *discordgo.GuildScheduledEventDelete) {
	if e.GuildScheduledEvent == nil {
		return
	}
	cfg, ok := g.config.EventConfig(e.GuildID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err := g.mirror.DeleteEvent(ctx, e.ID, cfg); err != nil {
		utils.Error("Gateway", "delete event", fmt.Sprintf("Event %s in %s: %v", e.ID, e.GuildID, err))
	}
}
