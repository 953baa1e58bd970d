package models

// BotConfig is the fully loaded configuration of the bot.
type BotConfig struct {
	Token           string          `mapstructure:"token"`
	ApplicationID   string          `mapstructure:"applicationId"`
	Admins          []string        `mapstructure:"admins"`
	Playing         string          `mapstructure:"playing"`
	AdminChannelID  string          `mapstructure:"adminChannelId"`
	DumpAtStartup   bool            `mapstructure:"dumpAtStartup"`
	RefreshSchedule string          `mapstructure:"refreshSchedule"`
	HealthAddr      string          `mapstructure:"healthAddr"`
	StatusFile      string          `mapstructure:"statusFile"`
	LogLevel        string          `mapstructure:"-"`
	Channels        []ChannelConfig `mapstructure:"channels"`
	Events          []EventConfig   `mapstructure:"events"`
}

// DBConfig holds the connection parameters of a mirror table.
type DBConfig struct {
	Driver   string `mapstructure:"dbDriver"` // mysql (default) or sqlite3
	Host     string `mapstructure:"dbHost"`
	Port     int    `mapstructure:"dbPort"`
	User     string `mapstructure:"dbUser"`
	Password string `mapstructure:"dbPassword"`
	Name     string `mapstructure:"db"`
	Path     string `mapstructure:"dbPath"` // sqlite3 only
	Table    string `mapstructure:"dbTable"`
}

// ChannelConfig describes a mirrored channel.
type ChannelConfig struct {
	ID                  string              `mapstructure:"id"`
	DB                  DBConfig            `mapstructure:",squash"`
	AllowBots           bool                `mapstructure:"allowBots"`
	AllowDump           *bool               `mapstructure:"allowDump"`
	UserMentionsMode    UserMentionsMode    `mapstructure:"userMentionsMode"`
	ChannelMentionsMode ChannelMentionsMode `mapstructure:"channelMentionsMode"`
	RoleMentionsMode    RoleMentionsMode    `mapstructure:"roleMentionsMode"`
	AuthorMode          AuthorMode          `mapstructure:"authorMode"`
}

// DumpAllowed reports whether /dump may write into this channel's table.
// Only an explicit false disables it.
func (c ChannelConfig) DumpAllowed() bool {
	return c.AllowDump == nil || *c.AllowDump
}

// EventConfig describes a guild whose scheduled events are mirrored.
type EventConfig struct {
	Guild       string      `mapstructure:"guild"`
	DB          DBConfig    `mapstructure:",squash"`
	CreatorMode CreatorMode `mapstructure:"creatorMode"`
}

// ChannelConfig returns the configuration of a mirrored channel.
func (c *BotConfig) ChannelConfig(channelID string) (ChannelConfig, bool) {
	for _, ch := range c.Channels {
		if ch.ID == channelID {
			return ch, true
		}
	}
	return ChannelConfig{}, false
}

// EventConfig returns the event configuration of a guild.
func (c *BotConfig) EventConfig(guildID string) (EventConfig, bool) {
	for _, ev := range c.Events {
		if ev.Guild == guildID {
			return ev, true
		}
	}
	return EventConfig{}, false
}
