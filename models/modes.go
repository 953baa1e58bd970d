package models

import "fmt"

// UserMentionsMode selects how <@id> mentions are rendered.
type UserMentionsMode int

const (
	UserMentionID UserMentionsMode = iota
	UserMentionUsername
	UserMentionUsernameAlt
	UserMentionTag
	UserMentionWrappedID
	UserMentionWrappedUsername
)

func (m UserMentionsMode) Valid() bool {
	return m >= UserMentionID && m <= UserMentionWrappedUsername
}

// ChannelMentionsMode selects how <#id> mentions are rendered.
type ChannelMentionsMode int

const (
	ChannelMentionID ChannelMentionsMode = iota
	ChannelMentionName
	ChannelMentionWrappedID
	ChannelMentionWrappedName
)

func (m ChannelMentionsMode) Valid() bool {
	return m >= ChannelMentionID && m <= ChannelMentionWrappedName
}

// RoleMentionsMode selects how <@&id> mentions are rendered.
type RoleMentionsMode int

const (
	RoleMentionID RoleMentionsMode = iota
	RoleMentionName
	RoleMentionNameColor
)

func (m RoleMentionsMode) Valid() bool {
	return m >= RoleMentionID && m <= RoleMentionNameColor
}

// AuthorMode selects the value stored in the author column.
type AuthorMode int

const (
	AuthorID AuthorMode = iota
	AuthorUsername
	AuthorTag
	AuthorNickname // guild nickname, username when unset
)

func (m AuthorMode) Valid() bool {
	return m >= AuthorID && m <= AuthorNickname
}

// CreatorMode selects the value stored in the creator column of events.
type CreatorMode int

const (
	CreatorID CreatorMode = iota
	CreatorUsername
	CreatorTag
)

func (m CreatorMode) Valid() bool {
	return m >= CreatorID && m <= CreatorTag
}

// Validate checks every mode of a channel configuration.
func (c ChannelConfig) Validate() error {
	switch {
	case !c.UserMentionsMode.Valid():
		return fmt.Errorf("%w: channel %s userMentionsMode %d", ErrInvalidMode, c.ID, c.UserMentionsMode)
	case !c.ChannelMentionsMode.Valid():
		return fmt.Errorf("%w: channel %s channelMentionsMode %d", ErrInvalidMode, c.ID, c.ChannelMentionsMode)
	case !c.RoleMentionsMode.Valid():
		return fmt.Errorf("%w: channel %s roleMentionsMode %d", ErrInvalidMode, c.ID, c.RoleMentionsMode)
	case !c.AuthorMode.Valid():
		return fmt.Errorf("%w: channel %s authorMode %d", ErrInvalidMode, c.ID, c.AuthorMode)
	}
	return nil
}

// Validate checks the creator mode of an event configuration.
func (c EventConfig) Validate() error {
	if !c.CreatorMode.Valid() {
		return fmt.Errorf("%w: guild %s creatorMode %d", ErrInvalidMode, c.Guild, c.CreatorMode)
	}
	return nil
}
