package command

import (
	"maps"
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Command is an interface for application commands.
type Command interface {
	Definition() *discordgo.ApplicationCommand
}

// AllCommands holds all the command instances.
var AllCommands = []Command{
	&PingCommand{},
	&DumpCommand{},
	&RefreshEventsCommand{},
}

// GetCommandDefinitions returns the definitions of the registered commands,
// ordered by name.
func GetCommandDefinitions(commands map[string]Command) []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, 0, len(commands))
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		defs = append(defs, commands[name].Definition())
	}
	return defs
}
