package utils

import (
	"discord-mirror/models"

	"github.com/bwmarrin/discordgo"
)

// Auth provides methods for authorization checks.
type Auth struct {
	admins map[string]bool
}

// NewAuth creates an Auth from the configured admin ids.
func NewAuth(cfg *models.BotConfig) *Auth {
	admins := make(map[string]bool, len(cfg.Admins))
	for _, id := range cfg.Admins {
		admins[id] = true
	}
	return &Auth{admins: admins}
}

// IsAdmin checks if a user id is listed in bot.admins.
func (a *Auth) IsAdmin(userID string) bool {
	return a.admins[userID]
}

// InteractionUser returns the invoking user of a guild or DM interaction.
func InteractionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// CheckPermission checks if the invoking user has the required level.
func (a *Auth) CheckPermission(i *discordgo.Interaction, requiredLevel string) bool {
	switch requiredLevel {
	case "guest":
		return true
	case "admin":
		u := InteractionUser(i)
		return u != nil && a.IsAdmin(u.ID)
	default:
		return false
	}
}
