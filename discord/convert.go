// Package discord converts discordgo objects into the DTOs the mirror works
// on and implements the platform calls it needs.
package discord

import (
	"regexp"

	"discord-mirror/models"

	"github.com/bwmarrin/discordgo"
)

var channelMentionPattern = regexp.MustCompile(`<#!?(\d+)>`)

// ConvertUser copies the fields the mirror renders.
func ConvertUser(u *discordgo.User) models.User {
	if u == nil {
		return models.User{}
	}
	return models.User{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		Bot:           u.Bot,
	}
}

// ConvertEvent maps a scheduled event. The image is kept as the cover hash.
func ConvertEvent(ev *discordgo.GuildScheduledEvent) models.Event {
	return models.Event{
		ID:          ev.ID,
		GuildID:     ev.GuildID,
		Name:        ev.Name,
		Description: ev.Description,
		CreatorID:   ev.CreatorID,
		Location:    ev.EntityMetadata.Location,
		Image:       ev.Image,
		StartsAt:    ev.ScheduledStartTime,
		EndsAt:      ev.ScheduledEndTime,
		Status:      models.EventStatus(ev.Status),
	}
}

// ChannelMentionIDs returns the distinct channel ids referenced in content, in
// order of first appearance.
func ChannelMentionIDs(content string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, match := range channelMentionPattern.FindAllStringSubmatch(content, -1) {
		if id := match[1]; !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// ConvertMessage maps a message together with the channels and roles it
// references, which the caller resolved beforehand.
func ConvertMessage(m *discordgo.Message, channels []models.Channel, roles []models.Role) models.Message {
	msg := models.Message{
		ID:                m.ID,
		ChannelID:         m.ChannelID,
		GuildID:           m.GuildID,
		Content:           m.Content,
		Author:            ConvertUser(m.Author),
		MentionedChannels: channels,
		MentionedRoles:    roles,
		CreatedAt:         m.Timestamp,
		EditedAt:          m.EditedTimestamp,
	}
	if m.Member != nil {
		msg.Nickname = m.Member.Nick
	}
	for _, u := range m.Mentions {
		msg.MentionedUsers = append(msg.MentionedUsers, ConvertUser(u))
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, a.URL)
	}
	return msg
}

func convertChannel(c *discordgo.Channel) models.Channel {
	return models.Channel{ID: c.ID, Name: c.Name}
}

func convertRole(r *discordgo.Role) models.Role {
	return models.Role{ID: r.ID, Name: r.Name, Color: r.Color}
}
