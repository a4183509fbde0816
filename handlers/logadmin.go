package handlers

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/policy"
	"canadian-helper/storage"
	"canadian-helper/utils"
)

func logNumberOption(i *discordgo.InteractionCreate) int {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "log_number" {
			return int(opt.IntValue())
		}
	}
	return 0
}

// HandleEdit applies a partial correction to a log entry and refreshes the
// posted embed. Release times are changed through /extend and /reduce, not
// here.
func (h *Handlers) HandleEdit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID
	logNumber := logNumberOption(i)

	entry := b.Store.GetLog(guildID, logNumber)
	if entry == nil {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Log #%d does not exist.", logNumber))
		return
	}

	var upd storage.LogUpdate
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			id := opt.UserValue(s).ID
			upd.UserID = &id
		case "rule":
			v := opt.StringValue()
			upd.RuleViolation = &v
		case "description":
			v := opt.StringValue()
			upd.Description = &v
		case "punishment":
			v := opt.StringValue()
			upd.Punishment = &v
		}
	}
	if upd.UserID == nil && upd.RuleViolation == nil && upd.Description == nil && upd.Punishment == nil {
		utils.SendErrorResponse(s, i, "Nothing to change.")
		return
	}

	// Changing the subject of a live timed punishment would strand the old
	// timer, so move it along with the record.
	if upd.UserID != nil && *upd.UserID != entry.UserID && entry.ActiveAt(time.Now().UTC().Unix()) {
		b.Scheduler.CancelRelease(entry.UserID)
		if entry.ReleaseTime != nil {
			b.Scheduler.ArmRelease(guildID, *upd.UserID, *entry.ReleaseTime)
		}
	}

	if err := b.Store.UpdateLog(guildID, logNumber, upd); err != nil {
		log.Errorf("Failed to update log #%d: %v", logNumber, err)
		utils.SendErrorResponse(s, i, "Failed to update the log.")
		return
	}

	if updated := b.Store.GetLog(guildID, logNumber); updated != nil {
		b.Platform.UpdateLogMessage(updated, b.Store.TotalLogs(guildID))
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("Log #%d updated.", logNumber))
}

// HandleExtend pushes the release time of a running punishment further out.
func (h *Handlers) HandleExtend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.shiftRelease(s, i, 1)
}

// HandleReduce pulls the release time of a running punishment closer. A
// reduction past the present clamps to now, releasing on the next sweep or
// timer fire.
func (h *Handlers) HandleReduce(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.shiftRelease(s, i, -1)
}

func (h *Handlers) shiftRelease(s *discordgo.Session, i *discordgo.InteractionCreate, sign int64) {
	b := h.bot
	guildID := i.GuildID
	logNumber := logNumberOption(i)

	var duration string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "duration" {
			duration = opt.StringValue()
		}
	}

	seconds, indefinite, err := policy.ParseDuration(duration)
	if err != nil || indefinite {
		utils.SendErrorResponse(s, i, "Invalid duration. Use forms like 30m, 2h, 3d, 1w, 1mo.")
		return
	}

	entry := b.Store.GetLog(guildID, logNumber)
	if entry == nil {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Log #%d does not exist.", logNumber))
		return
	}
	now := time.Now().UTC().Unix()
	if !entry.ActiveAt(now) || entry.ReleaseTime == nil {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Log #%d has no running timed punishment.", logNumber))
		return
	}

	newRelease := policy.ShiftRelease(*entry.ReleaseTime, sign*seconds, now)

	upd := storage.LogUpdate{ReleaseTime: &newRelease}
	if err := b.Store.UpdateLog(guildID, logNumber, upd); err != nil {
		log.Errorf("Failed to shift release for log #%d: %v", logNumber, err)
		utils.SendErrorResponse(s, i, "Failed to update the log.")
		return
	}

	// Rearming replaces the old timer; at most one stays live per user.
	b.Scheduler.ArmRelease(guildID, entry.UserID, newRelease)

	if updated := b.Store.GetLog(guildID, logNumber); updated != nil {
		b.Platform.UpdateLogMessage(updated, b.Store.TotalLogs(guildID))
	}

	verb := "extended"
	if sign < 0 {
		verb = "reduced"
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf(
		"Log #%d %s by %s. New release: <t:%d:F>.", logNumber, verb, duration, newRelease))
}

// HandleDelete removes a log entirely, as if it never happened. The log
// number is not reused.
func (h *Handlers) HandleDelete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID
	logNumber := logNumberOption(i)

	entry := b.Store.GetLog(guildID, logNumber)
	if entry == nil {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Log #%d does not exist.", logNumber))
		return
	}

	if entry.ActiveAt(time.Now().UTC().Unix()) {
		b.Scheduler.CancelRelease(entry.UserID)
	}
	b.Platform.DeleteLogMessage(entry)

	if err := b.Store.DeleteLog(guildID, logNumber); err != nil {
		log.Errorf("Failed to delete log #%d: %v", logNumber, err)
		utils.SendErrorResponse(s, i, "Failed to delete the log.")
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf("Log #%d deleted.", logNumber))
}

// HandleRetract voids a log but keeps it on record: it stops counting toward
// escalation and its timer is cancelled.
func (h *Handlers) HandleRetract(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID
	logNumber := logNumberOption(i)

	entry := b.Store.GetLog(guildID, logNumber)
	if entry == nil {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Log #%d does not exist.", logNumber))
		return
	}
	if entry.Retracted {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Log #%d is already retracted.", logNumber))
		return
	}

	if entry.ActiveAt(time.Now().UTC().Unix()) {
		b.Scheduler.CancelRelease(entry.UserID)
	}

	if err := b.Store.SetRetracted(guildID, logNumber, true); err != nil {
		log.Errorf("Failed to retract log #%d: %v", logNumber, err)
		utils.SendErrorResponse(s, i, "Failed to retract the log.")
		return
	}

	if updated := b.Store.GetLog(guildID, logNumber); updated != nil {
		b.Platform.UpdateLogMessage(updated, b.Store.TotalLogs(guildID))
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Log #%d has been retracted.", logNumber))
}
