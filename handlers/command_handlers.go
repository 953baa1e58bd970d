package handlers

import (
	"context"
	"errors"
	"fmt"

	"discord-mirror/command"
	"discord-mirror/models"
	"discord-mirror/utils"

	"github.com/bwmarrin/discordgo"
)

// HandlePing handles the logic for the /ping command.
func (d *CommandDispatcher) HandlePing(r Responder, i *discordgo.Interaction) {
	reply(r, i, "Pong!")
}

// HandleDump handles the logic for the /dump command. The initial reply is
// sent before any platform or database access; the outcome is a followup.
func (d *CommandDispatcher) HandleDump(ctx context.Context, r Responder, i *discordgo.Interaction) {
	var channelID string
	limit := command.MaxDumpLimit
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "channel":
			channelID = opt.ChannelValue(nil).ID
		case "limit":
			limit = int(opt.IntValue())
		}
	}

	reply(r, i, "Starting to dump messages")

	result, err := d.sync.Dump(ctx, channelID, limit)
	switch {
	case errors.Is(err, models.ErrChannelNotConfigured):
		followUp(r, i, "Channel not configured")
	case errors.Is(err, models.ErrDumpDisabled):
		followUp(r, i, "Dumping is disabled in this channel")
	case err != nil:
		utils.Error("Dump", "dump messages", fmt.Sprintf("Channel %s: %v", channelID, err))
		followUp(r, i, "Error dumping messages")
	default:
		utils.Info("Dump", "dump messages", fmt.Sprintf("Channel %s: %d inserted, %d updated, %d skipped",
			channelID, result.Inserted, result.Updated, result.Skipped))
		followUp(r, i, "Successfully dumped messages")
	}
}

// HandleRefreshEvents handles the logic for the /refresh_events command. It
// only ever refreshes the guild the command was used in.
func (d *CommandDispatcher) HandleRefreshEvents(ctx context.Context, r Responder, i *discordgo.Interaction) {
	reply(r, i, "Starting to refresh events")

	if i.GuildID == "" {
		followUp(r, i, "Guild not configured for events")
		return
	}

	err := d.sync.RefreshEvents(ctx, i.GuildID)
	switch {
	case errors.Is(err, models.ErrGuildNotConfigured):
		followUp(r, i, "Guild not configured for events")
	case err != nil:
		utils.Error("RefreshEvents", "refresh events", fmt.Sprintf("Guild %s: %v", i.GuildID, err))
		followUp(r, i, "Error refreshing events")
	default:
		followUp(r, i, "Successfully refreshed events")
	}
}
