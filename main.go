package main

import (
	"discord-mirror/bot"
	"discord-mirror/command"
	"discord-mirror/handlers"
)

func main() {
	bot.Run(handlers.Register, command.AllCommands)
}
