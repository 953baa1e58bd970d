package handlers

import (
	"context"
	"fmt"

	"discord-mirror/models"
	"discord-mirror/utils"

	"github.com/bwmarrin/discordgo"
)

// MessageCreate mirrors new messages of configured channels.
func (g *Gateway) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	g.storeMessage(m.Message, false)
}

// MessageUpdate mirrors edits. Updates without an author are partial and the
// full message is fetched first.
func (g *Gateway) MessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Message == nil {
		return
	}
	g.storeMessage(m.Message, m.Author == nil)
}

// MessageDelete removes the rows of deleted messages.
func (g *Gateway) MessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.Message == nil {
		return
	}
	cfg, ok := g.config.ChannelConfig(m.ChannelID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err := g.mirror.DeleteMessage(ctx, m.ID, cfg); err != nil {
		utils.Error("Gateway", "delete message", fmt.Sprintf("Message %s in %s: %v", m.ID, m.ChannelID, err))
	}
}

func (g *Gateway) storeMessage(m *discordgo.Message, partial bool) {
	if m == nil {
		return
	}
	cfg, ok := g.config.ChannelConfig(m.ChannelID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	var (
		msg models.Message
		err error
	)
	if partial {
		msg, err = g.source.FetchMessage(ctx, m.ChannelID, m.ID)
	} else {
		msg, err = g.source.Message(ctx, m)
	}
	if err != nil {
		utils.Error("Gateway", "resolve message", fmt.Sprintf("Message %s in %s: %v", m.ID, m.ChannelID, err))
		return
	}

	if _, err := g.mirror.StoreMessages(ctx, []models.Message{msg}, cfg); err != nil {
		utils.Error("Gateway", "store message", fmt.Sprintf("Message %s in %s: %v", m.ID, m.ChannelID, err))
	}
}
