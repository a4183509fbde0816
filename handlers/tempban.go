package handlers

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/model"
	"canadian-helper/policy"
	"canadian-helper/stats"
	"canadian-helper/utils"
)

// promptTTL is how long a temp-ban confirmation stays answerable.
const promptTTL = 24 * time.Hour

// tempBanPrompt is one open escalation confirmation. responded flips exactly
// once; a second button press on the same prompt is refused.
type tempBanPrompt struct {
	guildID    string
	userID     string
	proposerID string
	duration   string
	reason     string
	responded  bool
	created    time.Time
}

type promptStore struct {
	mu      sync.Mutex
	prompts map[string]*tempBanPrompt
}

func newPromptStore() *promptStore {
	return &promptStore{prompts: make(map[string]*tempBanPrompt)}
}

func (p *promptStore) put(key string, prompt *tempBanPrompt) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range p.prompts {
		if time.Since(v.created) > promptTTL {
			delete(p.prompts, k)
		}
	}
	p.prompts[key] = prompt
}

// respond marks the prompt answered. ok is false when the prompt is unknown,
// expired or already answered.
func (p *promptStore) respond(key string) (*tempBanPrompt, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prompt, found := p.prompts[key]
	if !found || prompt.responded || time.Since(prompt.created) > promptTTL {
		return nil, false
	}
	prompt.responded = true
	return prompt, true
}

// proposeTempBan posts an escalation confirmation to the temp-ban channel.
// Nothing happens to the subject until a moderator confirms.
func (h *Handlers) proposeTempBan(s *discordgo.Session, guildID, userID, proposerID string, sug *policy.Suggestion) {
	b := h.bot
	channelID := b.Platform.TempBanChannelID()
	if channelID == "" {
		channelID = b.Platform.LogChannelID()
	}
	if channelID == "" {
		return
	}

	key := fmt.Sprintf("%s:%d", userID, time.Now().UnixNano())
	h.prompts.put(key, &tempBanPrompt{
		guildID:    guildID,
		userID:     userID,
		proposerID: proposerID,
		duration:   sug.Duration,
		reason:     sug.Description,
		created:    time.Now(),
	})

	embed := &discordgo.MessageEmbed{
		Title: "Temp ban suggested",
		Description: fmt.Sprintf(
			"<@%s> has reached the escalation threshold.\n**Rule:** %s\n**Trigger:** %s\n**Suggested ban:** %s",
			userID, sug.Description, sug.Trigger, sug.Duration),
		Color: 0xE74C3C,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Prior offenses: %d", sug.PriorOffenses),
		},
	}
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Ban",
						Style:    discordgo.DangerButton,
						CustomID: "tempban_confirm:" + key,
					},
					discordgo.Button{
						Label:    "Dismiss",
						Style:    discordgo.SecondaryButton,
						CustomID: "tempban_reject:" + key,
					},
				},
			},
		},
	})
	if err != nil {
		log.Errorf("Failed to post temp-ban prompt: %v", err)
	}
}

// HandleTempBanPrompt resolves a confirmation button press.
func (h *Handlers) HandleTempBanPrompt(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !utils.HasModeratorAccess(i, h.bot.Store) {
		utils.SendErrorResponse(s, i, "You do not have permission to decide this.")
		return
	}

	customID := i.MessageComponentData().CustomID
	confirm := strings.HasPrefix(customID, "tempban_confirm:")
	key := customID[strings.Index(customID, ":")+1:]

	prompt, ok := h.prompts.respond(key)
	if !ok {
		utils.SendErrorResponse(s, i, "This prompt has expired or was already answered.")
		return
	}

	if !confirm {
		h.resolvePromptMessage(s, i, fmt.Sprintf("Dismissed by <@%s>.", i.Member.User.ID))
		return
	}

	logNumber, err := h.executeTempBan(prompt.guildID, prompt.userID, i.Member.User.ID, prompt.duration, prompt.reason)
	if err != nil {
		log.Errorf("Failed to execute confirmed temp ban: %v", err)
		h.resolvePromptMessage(s, i, "Ban failed: "+err.Error())
		return
	}
	h.resolvePromptMessage(s, i, fmt.Sprintf(
		"Confirmed by <@%s>: <@%s> banned for %s (log #%d).",
		i.Member.User.ID, prompt.userID, prompt.duration, logNumber))
}

// resolvePromptMessage strips the buttons off the prompt and appends the
// outcome.
func (h *Handlers) resolvePromptMessage(s *discordgo.Session, i *discordgo.InteractionCreate, outcome string) {
	embeds := i.Message.Embeds
	if len(embeds) > 0 {
		embeds[0].Description += "\n\n" + outcome
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     embeds,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Errorf("Failed to resolve temp-ban prompt: %v", err)
	}
}

// HandleTempBan bans a user directly for a bounded period.
func (h *Handlers) HandleTempBan(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID

	var (
		targetUser *discordgo.User
		duration   string
		reason     string
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "duration":
			duration = opt.StringValue()
		case "reason":
			reason = opt.StringValue()
		}
	}
	if targetUser == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the target user.")
		return
	}
	if !policy.ValidDuration(duration) {
		utils.SendErrorResponse(s, i, "Invalid duration. Use forms like 1w, 1mo, 6mo or indefinite.")
		return
	}

	// Staff are off limits: anyone with moderation access cannot be banned
	// through the bot.
	if member, err := s.GuildMember(guildID, targetUser.ID); err == nil {
		if member.Permissions&discordgo.PermissionAdministrator != 0 {
			utils.SendErrorResponse(s, i, "That user cannot be temp banned.")
			return
		}
		for _, roleID := range member.Roles {
			if b.Store.IsRoleAllowed(guildID, roleID) {
				utils.SendErrorResponse(s, i, "That user cannot be temp banned.")
				return
			}
		}
	}

	if b.Store.ActiveTempBanFor(guildID, targetUser.ID) != nil {
		utils.SendErrorResponse(s, i, "That user already has an active temp ban.")
		return
	}

	logNumber, err := h.executeTempBan(guildID, targetUser.ID, i.Member.User.ID, duration, reason)
	if err != nil {
		log.Errorf("Failed to temp ban: %v", err)
		utils.SendErrorResponse(s, i, "Could not ban that user.")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf(
		"<@%s> has been banned for %s (log #%d).", targetUser.ID, duration, logNumber))
}

// executeTempBan is shared by the direct command and the confirmation
// prompt: record the log, ban, persist the temp ban and arm its timer.
func (h *Handlers) executeTempBan(guildID, userID, moderatorID, duration, reason string) (int, error) {
	b := h.bot

	seconds, indefinite, err := policy.ParseDuration(duration)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Unix()
	var unbanTime *int64
	if !indefinite {
		ut := now + seconds
		unbanTime = &ut
	}

	rec := model.PunishmentLog{
		GuildID:         guildID,
		UserID:          userID,
		RuleViolation:   reason,
		Description:     fmt.Sprintf("Temporary ban for %s", duration),
		Punishment:      fmt.Sprintf("Temp ban (%s)", duration),
		PunishmentStart: now,
		ModeratorID:     moderatorID,
	}
	logNumber, err := b.Store.CreateLog(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to save ban log: %w", err)
	}

	if err := b.Platform.Ban(guildID, userID, reason); err != nil {
		return 0, err
	}

	ban := model.TempBan{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		LogNumber:   logNumber,
		Duration:    duration,
		UnbanTime:   unbanTime,
		Reason:      reason,
		BannedAt:    now,
	}
	if err := b.Store.CreateTempBan(ban); err != nil {
		return 0, fmt.Errorf("failed to save temp ban: %w", err)
	}

	if unbanTime != nil {
		b.Scheduler.ArmUnban(guildID, userID, *unbanTime, logNumber)
	}

	if entry := b.Store.GetLog(guildID, logNumber); entry != nil {
		b.Platform.PostLogMessage(entry, b.Store.TotalLogs(guildID))
	}
	if b.Archive != nil {
		if err := b.Archive.RecordSanction(guildID, userID, moderatorID, stats.ActionTempBan, reason); err != nil {
			log.Warnf("Failed to archive temp ban: %v", err)
		}
	}
	return logNumber, nil
}

// HandleTempBans lists the active temporary bans.
func (h *Handlers) HandleTempBans(s *discordgo.Session, i *discordgo.InteractionCreate) {
	bans := h.bot.Store.ActiveTempBans(i.GuildID)
	if len(bans) == 0 {
		utils.SendSimpleResponse(s, i, "No active temp bans.")
		return
	}

	var sb strings.Builder
	for _, ban := range bans {
		when := "indefinite"
		if ban.UnbanTime != nil {
			when = fmt.Sprintf("<t:%d:R>", *ban.UnbanTime)
		}
		fmt.Fprintf(&sb, "<@%s> (log #%d), unban %s, reason: %s\n", ban.UserID, ban.LogNumber, when, ban.Reason)
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Active temp bans (%d)", len(bans)),
		Description: sb.String(),
		Color:       0xE74C3C,
	}, true)
}

// HandleTempBanCancel lifts a temp ban early. The user id is free-form
// because a banned user cannot be picked from the member list.
func (h *Handlers) HandleTempBanCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b := h.bot
	guildID := i.GuildID

	var userID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user_id" {
			userID = strings.TrimSpace(opt.StringValue())
		}
	}

	ban := b.Store.ActiveTempBanFor(guildID, userID)
	if ban == nil {
		utils.SendErrorResponse(s, i, "No active temp ban for that user id.")
		return
	}

	found, err := b.Platform.Unban(guildID, userID)
	if err != nil {
		log.Errorf("Failed to unban %s: %v", userID, err)
		utils.SendErrorResponse(s, i, "Could not lift the ban right now.")
		return
	}
	if !found {
		log.Warnf("Temp ban for %s was already lifted on the platform", userID)
	}

	b.Scheduler.CancelUnban(userID)
	if _, err := b.Store.CancelTempBan(guildID, userID, i.Member.User.ID); err != nil {
		log.Errorf("Failed to record temp ban cancellation: %v", err)
	}

	b.Platform.NotifyUnbanned(userID, ban.LogNumber)
	b.Platform.LogUnban(guildID, userID, ban.LogNumber)
	utils.SendPublicResponse(s, i, fmt.Sprintf("Temp ban for <@%s> has been lifted.", userID))
}
