package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"discord-mirror/command"
	"discord-mirror/config"
	"discord-mirror/database"
	"discord-mirror/discord"
	"discord-mirror/grpc"
	"discord-mirror/mirror"
	"discord-mirror/models"
	"discord-mirror/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Intents the mirror needs: channels and roles for mention resolution,
// message content and scheduled events.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildScheduledEvents

// Bot encapsulates the bot's state.
type Bot struct {
	Session  *discordgo.Session
	Config   *models.BotConfig
	Client   *discord.Client
	Mirror   *mirror.Mirror
	Auth     *utils.Auth
	Health   *grpc.HealthServer
	Status   *database.StatusManager
	Commands map[string]command.Command

	cron *cron.Cron
}

// NewBot creates and initializes a new Bot instance.
func NewBot(cfg *models.BotConfig) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = Intents

	client := discord.NewClient(dg)
	b := &Bot{
		Session:  dg,
		Config:   cfg,
		Client:   client,
		Mirror:   mirror.New(cfg, mirror.SQLStores{}, client),
		Auth:     utils.NewAuth(cfg),
		Commands: make(map[string]command.Command),
	}
	if cfg.HealthAddr != "" {
		b.Health = grpc.NewHealthServer(cfg.HealthAddr)
	}
	if cfg.StatusFile != "" {
		b.Status = database.NewStatusManager(cfg.StatusFile)
		b.Mirror.SetRecorder(b.Status)
	}
	return b, nil
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []command.Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	if b.Health != nil {
		if err := b.Health.Start(); err != nil {
			return err
		}
	}

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	utils.InitLogger(b.Session, b.Config.AdminChannelID)

	appID := b.Config.ApplicationID
	if appID == "" {
		appID = b.Session.State.User.ID
	}
	defs := command.GetCommandDefinitions(b.Commands)
	log.Info("Started refreshing application (/) commands.")
	if _, err := b.Session.ApplicationCommandBulkOverwrite(appID, "", defs); err != nil {
		utils.Error("Bot", "register commands", err.Error())
	} else {
		log.Infof("Registered %d application commands", len(defs))
	}

	if err := b.startScheduler(); err != nil {
		return err
	}

	log.Info("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	b.stopScheduler()
	b.saveStatus()
	if b.Health != nil {
		b.Health.Stop()
	}
	if b.Session != nil {
		b.Session.Close()
	}
	log.Info("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commands []command.Command) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	utils.SetupConsole(cfg.LogLevel)

	bot, err := NewBot(cfg)
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	bot.RegisterCommands(commands)

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
