package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/model"
	"canadian-helper/stats"
	"canadian-helper/utils"
)

// HandleWarn records a warning, posts it to the warning log channel and DMs
// the subject.
func (h *Handlers) HandleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID

	var (
		targetUser *discordgo.User
		reason     string
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}
	if targetUser == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the target user.")
		return
	}
	if targetUser.Bot {
		utils.SendErrorResponse(s, i, "Bots cannot be warned.")
		return
	}

	rec := model.Warning{
		GuildID:     guildID,
		UserID:      targetUser.ID,
		Reason:      reason,
		ModeratorID: i.Member.User.ID,
	}
	warningNumber, err := b.Store.CreateWarning(rec)
	if err != nil {
		log.Errorf("Failed to save warning: %v", err)
		utils.SendErrorResponse(s, i, "Failed to save the warning.")
		return
	}

	saved := b.Store.GetWarning(guildID, warningNumber)
	if saved != nil {
		b.Platform.NotifyWarned(saved)
		h.postWarningMessage(saved)
	}

	if b.Archive != nil {
		if err := b.Archive.RecordSanction(guildID, targetUser.ID, i.Member.User.ID, stats.ActionWarn, ""); err != nil {
			log.Warnf("Failed to archive warning: %v", err)
		}
	}

	utils.SendPublicResponse(s, i, fmt.Sprintf(
		"<@%s> has been warned (warning #%d): %s", targetUser.ID, warningNumber, reason))
}

func (h *Handlers) postWarningMessage(w *model.Warning) {
	b := h.bot
	channelID := b.Config.WarningLogChannelID
	if channelID == "" {
		channelID = b.Platform.LogChannelID()
	}
	msg := b.Platform.SendChannelEmbed(channelID, &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Warning #%d", w.WarningNumber),
		Color: 0xE67E22,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", w.UserID), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", w.ModeratorID), Inline: true},
			{Name: "Reason", Value: w.Reason},
		},
	})
	if msg == nil {
		return
	}
	if err := b.Store.SetWarningMessageID(w.GuildID, w.WarningNumber, msg.ID); err != nil {
		log.Errorf("Failed to record warning message id: %v", err)
	}
}

// HandleWarnRemove deletes a warning by number.
func (h *Handlers) HandleWarnRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID

	var warningNumber int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "warning_number" {
			warningNumber = int(opt.IntValue())
		}
	}

	entry := b.Store.GetWarning(guildID, warningNumber)
	if entry == nil {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Warning #%d does not exist.", warningNumber))
		return
	}

	if entry.MessageID != "" {
		channelID := b.Config.WarningLogChannelID
		if channelID == "" {
			channelID = b.Platform.LogChannelID()
		}
		if err := s.ChannelMessageDelete(channelID, entry.MessageID); err != nil {
			log.Warnf("Failed to delete warning message: %v", err)
		}
	}

	if err := b.Store.DeleteWarning(guildID, warningNumber); err != nil {
		log.Errorf("Failed to delete warning #%d: %v", warningNumber, err)
		utils.SendErrorResponse(s, i, "Failed to delete the warning.")
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("Warning #%d removed.", warningNumber))
}
