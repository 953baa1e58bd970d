package discord

import (
	"context"
	"fmt"

	"discord-mirror/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Client serves platform lookups from the session state first and falls
// back to the REST API.
type Client struct {
	session *discordgo.Session
}

// NewClient wraps a session.
func NewClient(s *discordgo.Session) *Client {
	return &Client{session: s}
}

// User fetches a user by id.
func (c *Client) User(ctx context.Context, userID string) (models.User, error) {
	u, err := c.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return models.User{}, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return ConvertUser(u), nil
}

// ScheduledEvents fetches every scheduled event of a guild.
func (c *Client) ScheduledEvents(ctx context.Context, guildID string) ([]models.Event, error) {
	events, err := c.session.GuildScheduledEvents(guildID, false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]models.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, ConvertEvent(ev))
	}
	return out, nil
}

// ChannelMessages fetches the latest limit messages of a channel.
func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]models.Message, error) {
	msgs, err := c.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	nicks := make(map[string]string)
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		msg, err := c.message(ctx, m, nicks)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

// FetchMessage loads the full message, used when the gateway delivered a
// partial update.
func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (models.Message, error) {
	m, err := c.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	return c.Message(ctx, m)
}

// Message converts a gateway or REST message, resolving the channels and
// roles it mentions. Mentions that cannot be resolved are left out and their
// tokens stay in the text.
func (c *Client) Message(ctx context.Context, m *discordgo.Message) (models.Message, error) {
	return c.message(ctx, m, make(map[string]string))
}

// message converts m. nicks caches fetched nicknames by author id for the
// duration of one batch.
func (c *Client) message(ctx context.Context, m *discordgo.Message, nicks map[string]string) (models.Message, error) {
	if m.GuildID == "" {
		ch, err := c.channel(ctx, m.ChannelID)
		if err != nil {
			return models.Message{}, fmt.Errorf("failed to resolve channel %s: %w", m.ChannelID, err)
		}
		m.GuildID = ch.GuildID
	}

	var channels []models.Channel
	for _, id := range ChannelMentionIDs(m.Content) {
		ch, err := c.channel(ctx, id)
		if err != nil {
			log.WithError(err).WithField("channel", id).Debug("Unresolved channel mention")
			continue
		}
		channels = append(channels, convertChannel(ch))
	}

	roles, err := c.roles(ctx, m.GuildID, m.MentionRoles)
	if err != nil {
		return models.Message{}, err
	}

	msg := ConvertMessage(m, channels, roles)
	if msg.Nickname == "" && m.Author != nil && m.GuildID != "" && m.WebhookID == "" {
		msg.Nickname = c.nickname(ctx, m.GuildID, m.Author.ID, nicks)
	}
	return msg, nil
}

// nickname looks up a member's guild nickname. REST messages carry no member,
// so it falls back to fetching the member, which needs no privileged intent.
// Members that cannot be fetched have no nickname.
func (c *Client) nickname(ctx context.Context, guildID, userID string, nicks map[string]string) string {
	if member, err := c.session.State.Member(guildID, userID); err == nil {
		return member.Nick
	}
	if nick, ok := nicks[userID]; ok {
		return nick
	}
	member, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"guild": guildID, "user": userID}).Debug("Could not fetch member")
		nicks[userID] = ""
		return ""
	}
	nicks[userID] = member.Nick
	return member.Nick
}

func (c *Client) channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if ch, err := c.session.State.Channel(channelID); err == nil {
		return ch, nil
	}
	return c.session.Channel(channelID, discordgo.WithContext(ctx))
}

// roles resolves role ids from state, fetching the guild's roles once when
// any of them is missing.
func (c *Client) roles(ctx context.Context, guildID string, ids []string) ([]models.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var fetched map[string]*discordgo.Role
	out := make([]models.Role, 0, len(ids))
	for _, id := range ids {
		if r, err := c.session.State.Role(guildID, id); err == nil {
			out = append(out, convertRole(r))
			continue
		}
		if fetched == nil {
			all, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
			if err != nil {
				return nil, fmt.Errorf("failed to fetch roles of guild %s: %w", guildID, err)
			}
			fetched = make(map[string]*discordgo.Role, len(all))
			for _, r := range all {
				fetched[r.ID] = r
			}
		}
		if r, ok := fetched[id]; ok {
			out = append(out, convertRole(r))
		}
	}
	return out, nil
}
