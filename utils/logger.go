package utils

import (
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

// EmbedSender posts an embed to a channel. *discordgo.Session satisfies it.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var (
	sender    EmbedSender
	channelID string
)

// SetupConsole configures the console logger.
func SetupConsole(level string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warn("Unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// InitLogger attaches the admin channel logs are mirrored to.
func InitLogger(s EmbedSender, adminChannelID string) {
	sender = s
	channelID = adminChannelID
	if channelID == "" {
		log.Warn("bot.adminChannelId is not set, logging to channel is disabled")
	}
}

// Log writes to the console and, when configured, to the admin channel.
func Log(level, module, operation, details string) {
	entry := log.WithFields(log.Fields{"module": module, "operation": operation})
	var color int
	switch level {
	case "WARN":
		color = ColorWarn
		entry.Warn(details)
	case "ERROR":
		color = ColorError
		entry.Error(details)
	default:
		color = ColorInfo
		entry.Info(details)
	}

	if sender == nil || channelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:     "Log Level: " + level,
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Module",
				Value:  module,
				Inline: true,
			},
			{
				Name:   "Operation",
				Value:  operation,
				Inline: true,
			},
			{
				Name:  "Details",
				Value: details,
			},
		},
	}

	if _, err := sender.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.WithError(err).Error("Error sending log message to Discord")
	}
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}
