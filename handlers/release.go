package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/model"
	"canadian-helper/utils"
)

// HandleRelease ends a user's punishment early: the role is removed, the
// armed timer is cancelled and the pending log entry is closed.
func (h *Handlers) HandleRelease(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID

	var targetUser *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			targetUser = opt.UserValue(s)
		}
	}
	if targetUser == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the target user.")
		return
	}

	member, hasRole, err := b.Platform.HasSanctionRole(guildID, targetUser.ID)
	if err != nil {
		log.Errorf("Failed to resolve member for release: %v", err)
		utils.SendErrorResponse(s, i, "Could not look up that user right now.")
		return
	}

	active := h.activePunishmentFor(guildID, targetUser.ID)
	if !hasRole && active == nil {
		utils.SendErrorResponse(s, i, "That user is not in Canada.")
		return
	}

	if member && hasRole {
		if err := b.Platform.RemoveSanctionRole(guildID, targetUser.ID); err != nil {
			log.Errorf("Failed to remove punishment role: %v", err)
			utils.SendErrorResponse(s, i, "Could not remove the punishment role.")
			return
		}
	}

	b.Scheduler.CancelRelease(targetUser.ID)

	if active != nil && active.ReleaseTime != nil {
		if err := b.Store.CompletePunishment(guildID, targetUser.ID, *active.ReleaseTime); err != nil {
			log.Errorf("Failed to close punishment log: %v", err)
		}
	}

	b.Platform.NotifyReleased(targetUser.ID)
	b.Platform.LogRelease(guildID, targetUser.ID)
	utils.SendPublicResponse(s, i, fmt.Sprintf("<@%s> has been released from Canada.", targetUser.ID))
}

// activePunishmentFor returns the user's still-pending timed punishment, or
// nil when none is armed.
func (h *Handlers) activePunishmentFor(guildID, userID string) *model.PunishmentLog {
	for _, p := range h.bot.Store.ActivePunishments(guildID) {
		if p.UserID == userID {
			rec := p
			return &rec
		}
	}
	return nil
}
