package bot

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"canadian-helper/commands"
)

// Run opens the session, enforces the single-guild restriction, registers
// commands, reconciles persisted punishments with reality and then blocks
// until the process is told to stop.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}

	b.leaveForeignGuilds()

	guildID := b.Config.AllowedGuildID
	log.Infof("Registering %d commands for guild %s", len(commands.All()), guildID)
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Config.AppID, guildID, commands.All())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	b.RegisteredCommands = registered

	// Bring timers back in line with whatever the store says happened while
	// we were down, then let the sweep loop mop up anything timers miss.
	b.Scheduler.Reconcile(guildID)
	b.Scheduler.Start(guildID)
	b.Reporter.Start()

	log.Infof("Logged in as %s#%s. Press CTRL-C to exit.",
		b.Session.State.User.Username, b.Session.State.User.Discriminator)

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}

// leaveForeignGuilds leaves every guild other than the configured one. The
// bot holds moderation state for a single community and must not act
// elsewhere.
func (b *Bot) leaveForeignGuilds() {
	guilds, err := b.Session.UserGuilds(100, "", "", false)
	if err != nil {
		log.Warnf("Could not fetch guilds: %v", err)
		return
	}
	for _, g := range guilds {
		if g.ID == b.Config.AllowedGuildID {
			continue
		}
		log.Warnf("Leaving unauthorized guild %s (%s)", g.Name, g.ID)
		if err := b.Session.GuildLeave(g.ID); err != nil {
			log.Errorf("Failed to leave guild %s: %v", g.ID, err)
		}
	}
}
