package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"discord-mirror/database"
	"discord-mirror/models"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultRefreshSchedule is the cron spec of the periodic event refresh.
const DefaultRefreshSchedule = "@every 30m"

// fileConfig mirrors the layout of the merged configuration files.
type fileConfig struct {
	Bot      models.BotConfig       `mapstructure:"bot"`
	Channels []models.ChannelConfig `mapstructure:"channels"`
	Events   []models.EventConfig   `mapstructure:"events"`
}

// LoadConfig loads the configuration from the working directory into the
// global viper instance.
// Load order:
// 1. .env (environment variables)
// 2. config.yaml (base configuration)
// 3. config/channels.json (merged)
// 4. config/events.json (merged)
// Environment variables override file values with the same key.
func LoadConfig() (*models.BotConfig, error) {
	return load(viper.GetViper(), ".")
}

func load(v *viper.Viper, dir string) (*models.BotConfig, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil {
		log.Debug("No .env file found, skipping")
	}

	v.SetDefault("bot.refreshSchedule", DefaultRefreshSchedule)
	v.SetDefault("log.level", "info")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("bot.token", "BOT_TOKEN"); err != nil {
		return nil, err
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		log.Info("No config.yaml found, using environment variables and merged files only")
	}

	for _, name := range []string{"channels", "events"} {
		if err := mergeJSON(v, filepath.Join(dir, "config"), name); err != nil {
			return nil, err
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg := fc.Bot
	cfg.Channels = fc.Channels
	cfg.Events = fc.Events
	cfg.LogLevel = v.GetString("log.level")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func mergeJSON(v *viper.Viper, dir, name string) error {
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Infof("No config/%s.json found, skipping merge", name)
			return nil
		}
		return fmt.Errorf("failed to merge config/%s.json: %w", name, err)
	}
	return nil
}

// Validate rejects configurations the synchronizers cannot run with.
func Validate(cfg *models.BotConfig) error {
	if cfg.Token == "" {
		return errors.New("no bot token provided")
	}
	for _, ch := range cfg.Channels {
		if ch.ID == "" {
			return errors.New("channel entry without id")
		}
		if err := ch.Validate(); err != nil {
			return err
		}
		if err := validateDB(ch.DB); err != nil {
			return fmt.Errorf("channel %s: %w", ch.ID, err)
		}
	}
	for _, ev := range cfg.Events {
		if ev.Guild == "" {
			return errors.New("event entry without guild")
		}
		if err := ev.Validate(); err != nil {
			return err
		}
		if err := validateDB(ev.DB); err != nil {
			return fmt.Errorf("guild %s: %w", ev.Guild, err)
		}
	}
	return nil
}

func validateDB(db models.DBConfig) error {
	if err := database.ValidateTable(db.Table); err != nil {
		return err
	}
	switch database.DriverName(db) {
	case database.DriverMySQL:
		return nil
	case database.DriverSQLite:
		if db.Path == "" {
			return errors.New("sqlite3 requires dbPath")
		}
		return nil
	default:
		return fmt.Errorf("unsupported driver %q", db.Driver)
	}
}
