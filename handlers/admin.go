package handlers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/storage"
	"canadian-helper/utils"
)

// HandleSetup stores the punishment role and log channels in the config
// store, from where every later lookup resolves them.
func (h *Handlers) HandleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot

	var (
		roleID           string
		logChannelID     string
		tempBanChannelID string
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "canada_role":
			roleID = opt.RoleValue(s, i.GuildID).ID
		case "log_channel":
			logChannelID = opt.ChannelValue(s).ID
		case "tempban_channel":
			tempBanChannelID = opt.ChannelValue(s).ID
		}
	}

	if err := b.Store.SetConfig(storage.KeyCanadaRoleID, roleID); err != nil {
		log.Errorf("Failed to save role id: %v", err)
		utils.SendErrorResponse(s, i, "Failed to save the configuration.")
		return
	}
	if err := b.Store.SetConfig(storage.KeyLogChannelID, logChannelID); err != nil {
		log.Errorf("Failed to save log channel id: %v", err)
		utils.SendErrorResponse(s, i, "Failed to save the configuration.")
		return
	}
	if tempBanChannelID != "" {
		if err := b.Store.SetConfig(storage.KeyTempBanChannelID, tempBanChannelID); err != nil {
			log.Errorf("Failed to save temp-ban channel id: %v", err)
		}
	}

	utils.SendSimpleResponse(s, i, fmt.Sprintf(
		"Setup complete. Role: <@&%s>, log channel: <#%s>.", roleID, logChannelID))
}

// HandleManageRoles adds, removes or lists the moderator allow-list.
func (h *Handlers) HandleManageRoles(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID

	var (
		action string
		roleID string
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "action":
			action = opt.StringValue()
		case "role":
			roleID = opt.RoleValue(s, guildID).ID
		}
	}

	switch action {
	case "add":
		if roleID == "" {
			utils.SendErrorResponse(s, i, "Pick a role to add.")
			return
		}
		added, err := b.Store.AddAllowedRole(guildID, roleID)
		if err != nil {
			log.Errorf("Failed to add allowed role: %v", err)
			utils.SendErrorResponse(s, i, "Failed to save the role list.")
			return
		}
		if !added {
			utils.SendSimpleResponse(s, i, fmt.Sprintf("<@&%s> is already on the list.", roleID))
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("<@&%s> may now use moderation commands.", roleID))

	case "remove":
		if roleID == "" {
			utils.SendErrorResponse(s, i, "Pick a role to remove.")
			return
		}
		removed, err := b.Store.RemoveAllowedRole(guildID, roleID)
		if err != nil {
			log.Errorf("Failed to remove allowed role: %v", err)
			utils.SendErrorResponse(s, i, "Failed to save the role list.")
			return
		}
		if !removed {
			utils.SendSimpleResponse(s, i, fmt.Sprintf("<@&%s> was not on the list.", roleID))
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("<@&%s> removed from the list.", roleID))

	case "list":
		roles := b.Store.AllowedRoles(guildID)
		if len(roles) == 0 {
			utils.SendSimpleResponse(s, i, "No roles on the allow-list. Only administrators may moderate.")
			return
		}
		mentions := make([]string, 0, len(roles))
		for _, r := range roles {
			mentions = append(mentions, fmt.Sprintf("<@&%s>", r))
		}
		utils.SendSimpleResponse(s, i, "Allowed roles: "+strings.Join(mentions, ", "))
	}
}

// HandleCheckConfig shows the effective configuration.
func (h *Handlers) HandleCheckConfig(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot

	show := func(id, kind string) string {
		if id == "" {
			return "not set"
		}
		if kind == "role" {
			return fmt.Sprintf("<@&%s>", id)
		}
		return fmt.Sprintf("<#%s>", id)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Configuration",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Canada role", Value: show(b.Platform.CanadaRoleID(), "role"), Inline: true},
			{Name: "Log channel", Value: show(b.Platform.LogChannelID(), "channel"), Inline: true},
			{Name: "Temp-ban channel", Value: show(b.Platform.TempBanChannelID(), "channel"), Inline: true},
			{Name: "Warning channel", Value: show(b.Config.WarningLogChannelID, "channel"), Inline: true},
			{Name: "Ban log channel", Value: show(b.Config.BanLogChannelID, "channel"), Inline: true},
			{Name: "Stats channel", Value: show(b.Config.StatsChannelID, "channel"), Inline: true},
			{Name: "Appeal channel", Value: show(b.Config.AppealChannelID, "channel"), Inline: true},
			{Name: "Base durations", Value: policyTable(b.Config.Policy.BaseTimes)},
			{Name: "Per prior offense", Value: policyTable(b.Config.Policy.PerPriorOffense)},
		},
	}
	utils.SendEmbedResponse(s, i, embed, true)
}

func policyTable(table map[string]string) string {
	if len(table) == 0 {
		return "none"
	}
	var sb strings.Builder
	for k, v := range table {
		fmt.Fprintf(&sb, "`%s`: %s\n", k, v)
	}
	return sb.String()
}

// HandleCleanup runs an immediate sweep for overdue punishments and bans.
func (h *Handlers) HandleCleanup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	punishments, tempBans := h.bot.Scheduler.Sweep(i.GuildID)
	utils.SendSimpleResponse(s, i, fmt.Sprintf(
		"Sweep done: %d punishments and %d temp bans processed.", punishments, tempBans))
}
