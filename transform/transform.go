// Package transform turns platform messages into mirror rows: mention tokens
// are rewritten into plain text and the author is rendered per channel mode.
package transform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"discord-mirror/models"
)

// RewriteMentions replaces every user, channel and role mention token of the
// message content with its plain-text rendering.
func RewriteMentions(m models.Message, cfg models.ChannelConfig) (string, error) {
	content := m.Content

	for _, u := range m.MentionedUsers {
		format, err := userMention(u, cfg.UserMentionsMode)
		if err != nil {
			return "", err
		}
		content = replaceTokens(content, format, "<@"+u.ID+">", "<@!"+u.ID+">")
	}

	for _, c := range m.MentionedChannels {
		format, err := channelMention(c, cfg.ChannelMentionsMode)
		if err != nil {
			return "", err
		}
		content = replaceTokens(content, format, "<#"+c.ID+">", "<#!"+c.ID+">")
	}

	for _, r := range m.MentionedRoles {
		format, err := roleMention(r, cfg.RoleMentionsMode)
		if err != nil {
			return "", err
		}
		content = replaceTokens(content, format, "<@&"+r.ID+">", "<@&!"+r.ID+">")
	}

	return content, nil
}

func replaceTokens(content, format string, tokens ...string) string {
	for _, token := range tokens {
		content = strings.ReplaceAll(content, token, format)
	}
	return content
}

func userMention(u models.User, mode models.UserMentionsMode) (string, error) {
	switch mode {
	case models.UserMentionID:
		return "@" + u.ID, nil
	case models.UserMentionUsername, models.UserMentionUsernameAlt:
		return "@" + u.Username, nil
	case models.UserMentionTag:
		return "@" + u.Username + "#" + u.Discriminator, nil
	case models.UserMentionWrappedID:
		return "@" + u.ID + "@", nil
	case models.UserMentionWrappedUsername:
		return "@" + u.Username + "@", nil
	}
	return "", fmt.Errorf("%w: userMentionsMode %d", models.ErrInvalidMode, mode)
}

func channelMention(c models.Channel, mode models.ChannelMentionsMode) (string, error) {
	switch mode {
	case models.ChannelMentionID:
		return "#" + c.ID, nil
	case models.ChannelMentionName:
		return "#" + c.Name, nil
	case models.ChannelMentionWrappedID:
		return "#" + c.ID + "#", nil
	case models.ChannelMentionWrappedName:
		return "#" + c.Name + "#", nil
	}
	return "", fmt.Errorf("%w: channelMentionsMode %d", models.ErrInvalidMode, mode)
}

func roleMention(r models.Role, mode models.RoleMentionsMode) (string, error) {
	switch mode {
	case models.RoleMentionID:
		return "&" + r.ID, nil
	case models.RoleMentionName:
		return "&" + r.Name, nil
	case models.RoleMentionNameColor:
		return "&" + r.Name + "#" + colorHex(r.Color), nil
	}
	return "", fmt.Errorf("%w: roleMentionsMode %d", models.ErrInvalidMode, mode)
}

func colorHex(color int) string {
	return strconv.FormatInt(int64(color), 16)
}

// AuthorDisplay renders the message author for the author column.
func AuthorDisplay(m models.Message, mode models.AuthorMode) (string, error) {
	switch mode {
	case models.AuthorID:
		return m.Author.ID, nil
	case models.AuthorUsername:
		return m.Author.Username, nil
	case models.AuthorTag:
		return m.Author.Tag(), nil
	case models.AuthorNickname:
		if m.Nickname != "" {
			return m.Nickname, nil
		}
		return m.Author.Username, nil
	}
	return "", fmt.Errorf("%w: authorMode %d", models.ErrInvalidMode, mode)
}

// ExportMentions lists everything the message references, independent of
// how the content was rewritten. The author is always part of the users.
func ExportMentions(m models.Message) models.MentionsExport {
	export := models.MentionsExport{
		Users:    make([]models.MentionedUser, 0, len(m.MentionedUsers)+1),
		Channels: make([]models.MentionedChannel, 0, len(m.MentionedChannels)),
		Roles:    make([]models.MentionedRole, 0, len(m.MentionedRoles)),
	}

	seen := make(map[string]bool, len(m.MentionedUsers)+1)
	for _, u := range m.MentionedUsers {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		export.Users = append(export.Users, models.MentionedUser{ID: u.ID, Username: u.Tag()})
	}
	if !seen[m.Author.ID] {
		export.Users = append(export.Users, models.MentionedUser{ID: m.Author.ID, Username: m.Author.Tag()})
	}

	for _, c := range m.MentionedChannels {
		export.Channels = append(export.Channels, models.MentionedChannel{ID: c.ID, Name: c.Name})
	}
	for _, r := range m.MentionedRoles {
		export.Roles = append(export.Roles, models.MentionedRole{ID: r.ID, Name: r.Name, Color: colorHex(r.Color)})
	}
	return export
}

// Prepare builds the full mirror row of a message.
func Prepare(m models.Message, cfg models.ChannelConfig) (models.MessageRow, error) {
	content, err := RewriteMentions(m, cfg)
	if err != nil {
		return models.MessageRow{}, err
	}

	author, err := AuthorDisplay(m, cfg.AuthorMode)
	if err != nil {
		return models.MessageRow{}, err
	}

	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	images, err := json.Marshal(attachments)
	if err != nil {
		return models.MessageRow{}, fmt.Errorf("failed to marshal attachments of message %s: %w", m.ID, err)
	}

	exported, err := json.Marshal(ExportMentions(m))
	if err != nil {
		return models.MessageRow{}, fmt.Errorf("failed to marshal mentions of message %s: %w", m.ID, err)
	}
	mentions := string(exported)

	return models.MessageRow{
		ID:        m.ID,
		Message:   content,
		Author:    author,
		Images:    string(images),
		CreatedAt: m.CreatedAt.UTC().Truncate(time.Millisecond),
		EditedAt:  utcPtr(m.EditedAt),
		Mentions:  &mentions,
	}, nil
}

// utcPtr normalizes a timestamp to the millisecond precision of the
// DATETIME(3) columns.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Millisecond)
	return &u
}
