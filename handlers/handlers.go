package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/bot"
	"canadian-helper/utils"
)

// Handlers holds the per-process interaction state: pending rule pickers and
// open temp-ban confirmation prompts. Created once by Register.
type Handlers struct {
	bot          *bot.Bot
	pendingRules *pendingRuleStore
	prompts      *promptStore
}

// Register installs the command dispatch table and the session event
// handlers on the bot.
func Register(b *bot.Bot) {
	h := &Handlers{
		bot:          b,
		pendingRules: newPendingRuleStore(),
		prompts:      newPromptStore(),
	}
	b.CommandHandlers = h.commandHandlers()
	h.addHandlers()
}

func (h *Handlers) commandHandlers() map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"setup":               h.requireAdmin(h.HandleSetup),
		"canada":              h.requireModerator(h.HandleCanada),
		"release":             h.requireModerator(h.HandleRelease),
		"edit":                h.requireModerator(h.HandleEdit),
		"extend":              h.requireModerator(h.HandleExtend),
		"reduce":              h.requireModerator(h.HandleReduce),
		"delete":              h.requireModerator(h.HandleDelete),
		"retract":             h.requireModerator(h.HandleRetract),
		"check":               h.requireModerator(h.HandleCheck),
		"warn":                h.requireModerator(h.HandleWarn),
		"warn_remove":         h.requireModerator(h.HandleWarnRemove),
		"tempban":             h.requireModerator(h.HandleTempBan),
		"tempbans":            h.requireModerator(h.HandleTempBans),
		"tempban_cancel":      h.requireModerator(h.HandleTempBanCancel),
		"manage_roles":        h.requireAdmin(h.HandleManageRoles),
		"check_config":        h.requireAdmin(h.HandleCheckConfig),
		"cleanup_punishments": h.requireModerator(h.HandleCleanup),
		"status":              h.requireModerator(h.HandleStatus),
	}
}

type handlerFunc func(s *discordgo.Session, i *discordgo.InteractionCreate)

// requireModerator gates a command behind the moderator allow-list.
func (h *Handlers) requireModerator(next handlerFunc) handlerFunc {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !h.allowedGuild(s, i) {
			return
		}
		if !utils.HasModeratorAccess(i, h.bot.Store) {
			utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
			return
		}
		next(s, i)
	}
}

// requireAdmin gates a command behind the Administrator permission.
func (h *Handlers) requireAdmin(next handlerFunc) handlerFunc {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !h.allowedGuild(s, i) {
			return
		}
		if !utils.IsAdministrator(i) {
			utils.SendErrorResponse(s, i, "Only administrators can use this command.")
			return
		}
		next(s, i)
	}
}

func (h *Handlers) allowedGuild(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.GuildID == h.bot.Config.AllowedGuildID {
		return true
	}
	utils.SendErrorResponse(s, i, "This bot only operates on its home server.")
	return false
}

func (h *Handlers) addHandlers() {
	b := h.bot

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if handler, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
				handler(s, i)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID
			switch {
			case strings.HasPrefix(customID, "canada_rules:"):
				h.HandleRuleSelect(s, i)
			case strings.HasPrefix(customID, "check_page:"):
				h.HandleCheckPage(s, i)
			case strings.HasPrefix(customID, "tempban_confirm:"), strings.HasPrefix(customID, "tempban_reject:"):
				h.HandleTempBanPrompt(s, i)
			}
		}
	})

	// Every ban, bot-issued or manual, triggers the appeal DM.
	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildBanAdd) {
		if e.GuildID != b.Config.AllowedGuildID || e.User == nil {
			return
		}
		guildName := "the server"
		if g, err := s.Guild(e.GuildID); err == nil {
			guildName = g.Name
		}
		b.Platform.SendAppealDM(e.User.ID, guildName)
	})
}
