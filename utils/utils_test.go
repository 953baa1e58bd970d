package utils

import (
	"errors"
	"testing"

	"discord-mirror/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	channel string
	embeds  []*discordgo.MessageEmbed
	err     error
}

func (r *recordingSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.channel = channelID
	r.embeds = append(r.embeds, embed)
	return &discordgo.Message{}, r.err
}

func TestLogPostsEmbed(t *testing.T) {
	rec := &recordingSender{}
	InitLogger(rec, "admin")
	t.Cleanup(func() { InitLogger(nil, "") })

	Error("mirror", "dump", "boom")
	Warn("mirror", "dump", "careful")

	require.Len(t, rec.embeds, 2)
	assert.Equal(t, "admin", rec.channel)
	assert.Equal(t, "Log Level: ERROR", rec.embeds[0].Title)
	assert.Equal(t, ColorError, rec.embeds[0].Color)
	assert.Equal(t, "boom", rec.embeds[0].Fields[2].Value)
	assert.Equal(t, ColorWarn, rec.embeds[1].Color)
}

func TestLogWithoutChannel(t *testing.T) {
	rec := &recordingSender{err: errors.New("unreachable")}
	InitLogger(rec, "")
	t.Cleanup(func() { InitLogger(nil, "") })

	Info("bot", "start", "ready")
	assert.Empty(t, rec.embeds)
}

func TestAuth(t *testing.T) {
	auth := NewAuth(&models.BotConfig{Admins: []string{"1"}})

	guild := &discordgo.Interaction{Member: &discordgo.Member{User: &discordgo.User{ID: "1"}}}
	dm := &discordgo.Interaction{User: &discordgo.User{ID: "2"}}

	assert.True(t, auth.CheckPermission(guild, "admin"))
	assert.False(t, auth.CheckPermission(dm, "admin"))
	assert.True(t, auth.CheckPermission(dm, "guest"))
	assert.False(t, auth.CheckPermission(guild, "owner"))
	assert.False(t, auth.CheckPermission(&discordgo.Interaction{}, "admin"))
}
