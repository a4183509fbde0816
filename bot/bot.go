package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/model"
	"canadian-helper/platform"
	"canadian-helper/policy"
	"canadian-helper/scheduler"
	"canadian-helper/stats"
	"canadian-helper/storage"
)

// Bot wires the session to the store, the policy engine, the release
// scheduler and the stats archive.
type Bot struct {
	Session            *discordgo.Session
	Config             *model.Config
	Store              *storage.Store
	Platform           *platform.Discord
	Policy             *policy.Engine
	Scheduler          *scheduler.Scheduler
	Archive            *stats.Archive
	Reporter           *stats.Reporter
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	RegisteredCommands []*discordgo.ApplicationCommand
}

// New constructs the bot and all of its collaborators. The session is not
// opened yet; Run does that.
func New(cfg *model.Config, store *storage.Store, archive *stats.Archive) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildBans

	plat := platform.NewDiscord(dg, store, cfg)
	b := &Bot{
		Session:   dg,
		Config:    cfg,
		Store:     store,
		Platform:  plat,
		Policy:    policy.NewEngine(cfg.Policy, store),
		Scheduler: scheduler.New(store, plat),
		Archive:   archive,
	}
	b.Reporter = stats.NewReporter(archive, store, dg, cfg.AllowedGuildID, cfg.StatsChannelID)
	return b, nil
}

// Close stops the background loops and closes the session.
func (b *Bot) Close() {
	log.Info("Gracefully shutting down.")
	b.Scheduler.Stop()
	b.Reporter.Stop()
	if err := b.Session.Close(); err != nil {
		log.Errorf("Error closing session: %v", err)
	}
}
