package handlers

import (
	"context"
	"time"

	"discord-mirror/command"
	"discord-mirror/mirror"
	"discord-mirror/utils"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handlerTimeout bounds the work a single gateway event or command may do.
const handlerTimeout = 2 * time.Minute

// Responder answers interactions. *discordgo.Session satisfies it.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Syncer is the part of the mirror the commands drive.
type Syncer interface {
	Dump(ctx context.Context, channelID string, limit int) (mirror.Result, error)
	RefreshEvents(ctx context.Context, guildID string) error
}

var commandPermissions = map[string]string{
	command.Ping:          "guest",
	command.Dump:          "admin",
	command.RefreshEvents: "admin",
}

var deniedReplies = map[string]string{
	command.Dump:          "You do not have permission to dump messages",
	command.RefreshEvents: "You do not have permission to refresh events",
}

// CommandDispatcher performs permission checks and then dispatches the
// interaction to the matching command handler.
type CommandDispatcher struct {
	auth *utils.Auth
	sync Syncer
}

// NewCommandDispatcher creates a dispatcher.
func NewCommandDispatcher(auth *utils.Auth, sync Syncer) *CommandDispatcher {
	return &CommandDispatcher{auth: auth, sync: sync}
}

// Dispatch handles one application command interaction.
func (d *CommandDispatcher) Dispatch(r Responder, i *discordgo.Interaction) {
	name := i.ApplicationCommandData().Name

	if level, ok := commandPermissions[name]; ok && !d.auth.CheckPermission(i, level) {
		reply(r, i, deniedReplies[name])
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	switch name {
	case command.Ping:
		d.HandlePing(r, i)
	case command.Dump:
		d.HandleDump(ctx, r, i)
	case command.RefreshEvents:
		d.HandleRefreshEvents(ctx, r, i)
	default:
		reply(r, i, "Unknown command")
	}
}

func reply(r Responder, i *discordgo.Interaction, content string) {
	err := r.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Error("Failed to respond to interaction")
	}
}

func followUp(r Responder, i *discordgo.Interaction, content string) {
	_, err := r.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.WithError(err).Error("Failed to send followup message")
	}
}
