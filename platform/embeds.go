package platform

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/model"
	"canadian-helper/policy"
)

const (
	colorRed    = 0xE74C3C
	colorGreen  = 0x2ECC71
	colorOrange = 0xE67E22
	colorBlue   = 0x3498DB
)

// BuildLogEmbed renders a punishment log entry for the log channel. total is
// the guild's non-retracted log count, shown in the footer.
func BuildLogEmbed(entry *model.PunishmentLog, total int) *discordgo.MessageEmbed {
	release := "Indefinite"
	if entry.ReleaseTime != nil {
		release = fmt.Sprintf("<t:%d:F> (<t:%d:R>)", *entry.ReleaseTime, *entry.ReleaseTime)
	}
	if entry.Retracted {
		release = "Retracted"
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Log #%d", entry.LogNumber),
		Color: colorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", entry.UserID), Inline: true},
			{Name: "Rule Violation", Value: entry.RuleViolation, Inline: true},
			{Name: "Punishment", Value: entry.Punishment, Inline: true},
			{Name: "Description", Value: entry.Description},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", entry.ModeratorID), Inline: true},
			{Name: "Release", Value: release, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Total logs: %d", total),
		},
	}
	if entry.Retracted {
		embed.Title = fmt.Sprintf("Log #%d (Retracted)", entry.LogNumber)
		embed.Color = colorBlue
	}
	return embed
}

// PostLogMessage sends the log embed to the configured log channel and
// records the message id on the entry so later edits can update it in place.
func (d *Discord) PostLogMessage(entry *model.PunishmentLog, total int) {
	channelID := d.LogChannelID()
	msg := d.SendChannelEmbed(channelID, BuildLogEmbed(entry, total))
	if msg == nil {
		return
	}
	if err := d.store.SetLogMessageID(entry.GuildID, entry.LogNumber, msg.ID); err != nil {
		log.Errorf("Failed to record log message id for log #%d: %v", entry.LogNumber, err)
	}
}

// UpdateLogMessage edits the previously posted log embed, if one exists.
func (d *Discord) UpdateLogMessage(entry *model.PunishmentLog, total int) {
	if entry.MessageID == "" {
		return
	}
	channelID := d.LogChannelID()
	if channelID == "" {
		return
	}
	embed := BuildLogEmbed(entry, total)
	if _, err := d.session.ChannelMessageEditEmbed(channelID, entry.MessageID, embed); err != nil {
		log.Warnf("Failed to edit log message for log #%d: %v", entry.LogNumber, err)
	}
}

// DeleteLogMessage removes the posted log embed, if one exists.
func (d *Discord) DeleteLogMessage(entry *model.PunishmentLog) {
	if entry.MessageID == "" {
		return
	}
	channelID := d.LogChannelID()
	if channelID == "" {
		return
	}
	if err := d.session.ChannelMessageDelete(channelID, entry.MessageID); err != nil {
		log.Warnf("Failed to delete log message for log #%d: %v", entry.LogNumber, err)
	}
}

// NotifyPunished DMs the subject about a new punishment.
func (d *Discord) NotifyPunished(entry *model.PunishmentLog) {
	duration := "indefinite"
	if entry.ReleaseTime != nil {
		duration = policy.FormatDuration(*entry.ReleaseTime - entry.PunishmentStart)
	}
	d.SendDM(entry.UserID, &discordgo.MessageEmbed{
		Title: "You have been sent to Canada",
		Description: fmt.Sprintf(
			"**Rule violation:** %s\n**Duration:** %s\n**Description:** %s",
			entry.RuleViolation, duration, entry.Description),
		Color: colorRed,
	})
}

// NotifyReleased DMs the subject that their punishment has ended.
func (d *Discord) NotifyReleased(userID string) {
	d.SendDM(userID, &discordgo.MessageEmbed{
		Title:       "Welcome back",
		Description: "Your time in Canada is over. Please follow the server rules.",
		Color:       colorGreen,
	})
}

// NotifyUnbanned DMs the subject that their temporary ban has expired,
// including an invite link when one is configured.
func (d *Discord) NotifyUnbanned(userID string, logNumber int) {
	desc := fmt.Sprintf("Your temporary ban (log #%d) has expired and you have been unbanned.", logNumber)
	if d.cfg.InviteURL != "" {
		desc += fmt.Sprintf("\nYou can rejoin here: %s", d.cfg.InviteURL)
	}
	d.SendDM(userID, &discordgo.MessageEmbed{
		Title:       "Ban expired",
		Description: desc,
		Color:       colorGreen,
	})
}

// NotifyWarned DMs the subject about a new warning.
func (d *Discord) NotifyWarned(w *model.Warning) {
	d.SendDM(w.UserID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Warning #%d", w.WarningNumber),
		Description: fmt.Sprintf("**Reason:** %s", w.Reason),
		Color:       colorOrange,
	})
}

// SendAppealDM tells a freshly banned user how to appeal. When the DM is
// rejected (closed DMs, blocked bot) the notice goes to the appeal channel
// instead, mentioning the user so they can still find the form.
func (d *Discord) SendAppealDM(userID, guildName string) {
	if d.cfg.AppealFormURL == "" {
		return
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("You have been banned from %s", guildName),
		Description: fmt.Sprintf(
			"If you believe this ban was a mistake you can appeal here: %s",
			d.cfg.AppealFormURL),
		Color: colorRed,
	}
	if err := d.TrySendDM(userID, embed); err == nil {
		return
	}
	if d.cfg.AppealChannelID == "" {
		return
	}
	embed.Description = fmt.Sprintf("<@%s> could not be reached by DM. %s", userID, embed.Description)
	d.SendChannelEmbed(d.cfg.AppealChannelID, embed)
}

// LogRelease posts a release notice to the log channel.
func (d *Discord) LogRelease(guildID, userID string) {
	d.SendChannelEmbed(d.LogChannelID(), &discordgo.MessageEmbed{
		Title:       "Released from Canada",
		Description: fmt.Sprintf("<@%s> has served their time.", userID),
		Color:       colorGreen,
	})
}

// LogUnban posts an unban notice to the ban log channel, falling back to the
// punishment log channel.
func (d *Discord) LogUnban(guildID, userID string, logNumber int) {
	channelID := d.cfg.BanLogChannelID
	if channelID == "" {
		channelID = d.LogChannelID()
	}
	d.SendChannelEmbed(channelID, &discordgo.MessageEmbed{
		Title:       "Temporary ban expired",
		Description: fmt.Sprintf("<@%s> (log #%d) has been unbanned.", userID, logNumber),
		Color:       colorGreen,
	})
}
