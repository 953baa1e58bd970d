package handlers

import (
	"context"

	"discord-mirror/mirror"
	"discord-mirror/models"

	"github.com/bwmarrin/discordgo"
)

// Mirror is the part of the synchronizers the gateway handlers drive.
type Mirror interface {
	StoreMessages(ctx context.Context, msgs []models.Message, cfg models.ChannelConfig) (mirror.Result, error)
	DeleteMessage(ctx context.Context, id string, cfg models.ChannelConfig) error
	StoreEvents(ctx context.Context, events []models.Event, cfg models.EventConfig, cleanup bool) (mirror.Result, error)
	DeleteEvent(ctx context.Context, id string, cfg models.EventConfig) error
	RefreshEvents(ctx context.Context, guildID string) error
}

// MessageSource turns gateway messages into DTOs.
type MessageSource interface {
	Message(ctx context.Context, m *discordgo.Message) (models.Message, error)
	FetchMessage(ctx context.Context, channelID, messageID string) (models.Message, error)
}

// Gateway mirrors gateway events of configured channels and guilds.
type Gateway struct {
	config *models.BotConfig
	mirror Mirror
	source MessageSource
}

// NewGateway creates the gateway handlers.
func NewGateway(config *models.BotConfig, m Mirror, source MessageSource) *Gateway {
	return &Gateway{config: config, mirror: m, source: source}
}
