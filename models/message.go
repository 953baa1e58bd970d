package models

import "time"

// User is a platform user as seen by the mirror.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Bot           bool   `json:"bot"`
}

// Tag returns username#discriminator, or just the username for accounts
// migrated to unique usernames (discriminator "0").
func (u User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// Channel is a channel referenced by a message.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Role is a role referenced by a message.
type Role struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color int    `json:"color"`
}

// Message is a channel message at the platform boundary.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Content   string
	Author    User
	Nickname  string // author's guild nickname, empty when unset

	MentionedUsers    []User
	MentionedChannels []Channel
	MentionedRoles    []Role

	Attachments []string // attachment URLs
	CreatedAt   time.Time
	EditedAt    *time.Time
}

// MessageRow is a row of a channel's mirror table.
type MessageRow struct {
	ID        string     `db:"id"`
	Message   string     `db:"message"`
	Author    string     `db:"author"`
	Images    string     `db:"images"`
	CreatedAt time.Time  `db:"created_at"`
	EditedAt  *time.Time `db:"edited_at"`
	Mentions  *string    `db:"mentions"`
}

// StoredMessage is the part of a stored row needed to decide on an action.
type StoredMessage struct {
	ID       string     `db:"id"`
	EditedAt *time.Time `db:"edited_at"`
}

// MentionsExport is the JSON document kept in the mentions column.
type MentionsExport struct {
	Users    []MentionedUser    `json:"users"`
	Channels []MentionedChannel `json:"channels"`
	Roles    []MentionedRole    `json:"roles"`
}

type MentionedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"` // tag
}

type MentionedChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MentionedRole struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // lowercase hex
}
