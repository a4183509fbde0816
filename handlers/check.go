package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/utils"
)

const checkPageSize = 5

// HandleCheck shows a user's record: warnings first, then Canada logs,
// paginated when long.
func (h *Handlers) HandleCheck(s *discordgo.Session, i *discordgo.InteractionCreate) {
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

	embed, components := h.buildCheckPage(i.GuildID, targetUser.ID, 1)
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Failed to respond to check: %v", err)
	}
}

// HandleCheckPage re-renders a /check embed when a pagination button is
// pressed. The custom id carries the page and the subject.
func (h *Handlers) HandleCheckPage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 3 {
		return
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil || page < 1 {
		return
	}
	userID := parts[2]

	embed, components := h.buildCheckPage(i.GuildID, userID, page)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Failed to update check page: %v", err)
	}
}

func (h *Handlers) buildCheckPage(guildID, userID string, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	b := h.bot
	warnings := b.Store.UserWarnings(guildID, userID)
	logs := b.Store.UserPunishments(guildID, userID, true)

	type line struct{ text string }
	lines := make([]line, 0, len(warnings)+len(logs))
	for _, w := range warnings {
		lines = append(lines, line{fmt.Sprintf(
			"⚠️ **Warning #%d** <t:%d:d>\n%s", w.WarningNumber, w.CreatedAt, w.Reason)})
	}
	for _, l := range logs {
		status := ""
		if l.Retracted {
			status = " (retracted)"
		} else if l.CompletedAt != nil {
			status = " (served)"
		} else if l.ReleaseTime != nil {
			status = fmt.Sprintf(", releases <t:%d:R>", *l.ReleaseTime)
		} else {
			status = " (indefinite)"
		}
		lines = append(lines, line{fmt.Sprintf(
			"🍁 **Log #%d**%s <t:%d:d>\n%s: %s", l.LogNumber, status, l.CreatedAt, l.RuleViolation, l.Description)})
	}

	totalPages := (len(lines) + checkPageSize - 1) / checkPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * checkPageSize
	end := start + checkPageSize
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	if len(lines) == 0 {
		sb.WriteString("Clean record.")
	}
	for _, l := range lines[start:end] {
		sb.WriteString(l.text)
		sb.WriteString("\n\n")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Record",
		Description: sb.String(),
		Color:       colorForRecord(len(warnings), len(logs)),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", userID), Inline: true},
			{Name: "Warnings", Value: strconv.Itoa(len(warnings)), Inline: true},
			{Name: "Canada logs", Value: strconv.Itoa(len(logs)), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", page, totalPages),
		},
	}
	return embed, utils.CreatePaginationComponents(page, totalPages, "check_page", userID)
}

func colorForRecord(warnings, logs int) int {
	switch {
	case logs > 0:
		return 0xE74C3C
	case warnings > 0:
		return 0xE67E22
	default:
		return 0x2ECC71
	}
}
