package discord

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"discord-mirror/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertEvent(t *testing.T) {
	starts := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	ends := starts.Add(2 * time.Hour)
	ev := ConvertEvent(&discordgo.GuildScheduledEvent{
		ID:                 "9",
		GuildID:            "g1",
		CreatorID:          "u1",
		Name:               "Meetup",
		Description:        "Monthly",
		ScheduledStartTime: starts,
		ScheduledEndTime:   &ends,
		Status:             discordgo.GuildScheduledEventStatusScheduled,
		EntityMetadata:     discordgo.GuildScheduledEventEntityMetadata{Location: "Town hall"},
		Image:              "abc",
	})

	assert.Equal(t, models.Event{
		ID:          "9",
		GuildID:     "g1",
		Name:        "Meetup",
		Description: "Monthly",
		CreatorID:   "u1",
		Location:    "Town hall",
		Image:       "abc",
		StartsAt:    starts,
		EndsAt:      &ends,
		Status:      models.EventStatusScheduled,
	}, ev)
	assert.True(t, ev.Status.Active())
}

func TestChannelMentionIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, ChannelMentionIDs("<#1> and <#!2> then <#1> again, not <@3>"))
	assert.Empty(t, ChannelMentionIDs("no mentions"))
}

func TestConvertMessage(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := &discordgo.Message{
		ID:        "1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   "hi <@42>",
		Timestamp: created,
		Author:    &discordgo.User{ID: "7", Username: "alice", Discriminator: "0"},
		Member:    &discordgo.Member{Nick: "Ali"},
		Mentions:  []*discordgo.User{{ID: "42", Username: "bob", Bot: true}},
		Attachments: []*discordgo.MessageAttachment{
			{URL: "https://cdn.example/a.png"},
		},
	}

	msg := ConvertMessage(m, nil, []models.Role{{ID: "r", Name: "mods"}})
	assert.Equal(t, "Ali", msg.Nickname)
	assert.Equal(t, models.User{ID: "7", Username: "alice", Discriminator: "0"}, msg.Author)
	assert.Equal(t, []models.User{{ID: "42", Username: "bob", Bot: true}}, msg.MentionedUsers)
	assert.Equal(t, []string{"https://cdn.example/a.png"}, msg.Attachments)
	assert.Equal(t, created, msg.CreatedAt)
	assert.Nil(t, msg.EditedAt)
	assert.Len(t, msg.MentionedRoles, 1)
}

func newStateClient(t *testing.T) *Client {
	s, err := discordgo.New("Bot test")
	require.NoError(t, err)
	require.NoError(t, s.State.GuildAdd(&discordgo.Guild{ID: "g1"}))
	require.NoError(t, s.State.ChannelAdd(&discordgo.Channel{ID: "c1", GuildID: "g1", Name: "general"}))
	require.NoError(t, s.State.ChannelAdd(&discordgo.Channel{ID: "c2", GuildID: "g1", Name: "news"}))
	require.NoError(t, s.State.RoleAdd("g1", &discordgo.Role{ID: "r1", Name: "mods", Color: 0xff0000}))
	require.NoError(t, s.State.MemberAdd(&discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "7"}, Nick: "Ali"}))
	return NewClient(s)
}

func TestClientMessageResolvesFromState(t *testing.T) {
	c := newStateClient(t)

	msg, err := c.Message(context.Background(), &discordgo.Message{
		ID:           "1",
		ChannelID:    "c1",
		Content:      "see <#c2> <@&r1>",
		Author:       &discordgo.User{ID: "7", Username: "alice"},
		MentionRoles: []string{"r1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "g1", msg.GuildID)
	assert.Equal(t, "Ali", msg.Nickname)
	assert.Equal(t, []models.Role{{ID: "r1", Name: "mods", Color: 0xff0000}}, msg.MentionedRoles)
	assert.Empty(t, msg.MentionedChannels, "non-numeric tokens are not channel mentions")
}

func TestClientMessageChannelMentions(t *testing.T) {
	c := newStateClient(t)
	require.NoError(t, c.session.State.ChannelAdd(&discordgo.Channel{ID: "55", GuildID: "g1", Name: "rules"}))
	stub := &stubTransport{}
	c.session.Client = &http.Client{Transport: stub}

	msg, err := c.Message(context.Background(), &discordgo.Message{
		ID:        "1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   "read <#55>",
		Author:    &discordgo.User{ID: "8"},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Channel{{ID: "55", Name: "rules"}}, msg.MentionedChannels)
	assert.Empty(t, msg.Nickname)
	assert.Equal(t, []string{"/api/v9/guilds/g1/members/8"}, stub.requests)
}

// stubTransport answers REST calls from a path-keyed table and records them.
type stubTransport struct {
	mu        sync.Mutex
	responses map[string]string
	requests  []string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req.URL.Path)

	body, ok := s.responses[req.URL.Path]
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
		body = `{"message": "Unknown Member", "code": 10007}`
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func TestClientNicknameFromREST(t *testing.T) {
	c := newStateClient(t)
	stub := &stubTransport{responses: map[string]string{
		"/api/v9/guilds/g1/members/8": `{"nick": "Bobby", "user": {"id": "8", "username": "bob"}}`,
	}}
	c.session.Client = &http.Client{Transport: stub}

	restMessage := func(id, author string) *discordgo.Message {
		return &discordgo.Message{
			ID:        id,
			ChannelID: "c1",
			Content:   "hello",
			Author:    &discordgo.User{ID: author, Username: "bob"},
		}
	}

	msg, err := c.Message(context.Background(), restMessage("1", "8"))
	require.NoError(t, err)
	assert.Equal(t, "Bobby", msg.Nickname)
	assert.Equal(t, []string{"/api/v9/guilds/g1/members/8"}, stub.requests)

	// Members in state need no request.
	msg, err = c.Message(context.Background(), restMessage("2", "7"))
	require.NoError(t, err)
	assert.Equal(t, "Ali", msg.Nickname)
	assert.Len(t, stub.requests, 1)

	// A member that left the guild has no nickname and does not fail the message.
	msg, err = c.Message(context.Background(), restMessage("3", "9"))
	require.NoError(t, err)
	assert.Empty(t, msg.Nickname)
}

func TestClientNicknameCachedPerBatch(t *testing.T) {
	c := newStateClient(t)
	stub := &stubTransport{responses: map[string]string{
		"/api/v9/guilds/g1/members/8": `{"nick": "Bobby", "user": {"id": "8", "username": "bob"}}`,
	}}
	c.session.Client = &http.Client{Transport: stub}

	nicks := make(map[string]string)
	for _, id := range []string{"1", "2", "3"} {
		msg, err := c.message(context.Background(), &discordgo.Message{
			ID: id, ChannelID: "c1", GuildID: "g1",
			Author: &discordgo.User{ID: "8", Username: "bob"},
		}, nicks)
		require.NoError(t, err)
		assert.Equal(t, "Bobby", msg.Nickname)
	}
	assert.Len(t, stub.requests, 1)
}
