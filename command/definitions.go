package command

import "github.com/bwmarrin/discordgo"

const (
	Ping          = "ping"
	Dump          = "dump"
	RefreshEvents = "refresh_events"
)

// MaxDumpLimit bounds the limit option of /dump.
const MaxDumpLimit = 100

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        Ping,
		Description: "Replies with Pong!",
	}
}

// DumpCommand defines the structure for the /dump command.
type DumpCommand struct{}

// Definition returns the application command definition.
func (c *DumpCommand) Definition() *discordgo.ApplicationCommand {
	perms := int64(discordgo.PermissionManageGuild)
	minLimit := float64(1)
	return &discordgo.ApplicationCommand{
		Name:                     Dump,
		Description:              "Dump the latest messages of a channel into its database",
		DefaultMemberPermissions: &perms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "channel",
				Description: "The channel to dump",
				Type:        discordgo.ApplicationCommandOptionChannel,
				Required:    true,
				ChannelTypes: []discordgo.ChannelType{
					discordgo.ChannelTypeGuildText,
					discordgo.ChannelTypeGuildNews,
				},
			},
			{
				Name:        "limit",
				Description: "How many messages to dump (1-100, default 100)",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
				MinValue:    &minLimit,
				MaxValue:    MaxDumpLimit,
			},
		},
	}
}

// RefreshEventsCommand defines the structure for the /refresh_events command.
type RefreshEventsCommand struct{}

// Definition returns the application command definition.
func (c *RefreshEventsCommand) Definition() *discordgo.ApplicationCommand {
	perms := int64(discordgo.PermissionManageEvents)
	return &discordgo.ApplicationCommand{
		Name:                     RefreshEvents,
		Description:              "Resynchronize the scheduled events of this server",
		DefaultMemberPermissions: &perms,
	}
}
