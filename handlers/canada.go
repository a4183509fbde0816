package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/model"
	"canadian-helper/policy"
	"canadian-helper/stats"
	"canadian-helper/utils"
)

// pendingRuleState holds a /canada invocation that is waiting for the
// moderator to pick a rule from the select menu.
type pendingRuleState struct {
	moderatorID string
	userID      string
	description string
	duration    string
	created     time.Time
}

const pendingRuleTTL = 10 * time.Minute

type pendingRuleStore struct {
	mu      sync.Mutex
	pending map[string]pendingRuleState
}

func newPendingRuleStore() *pendingRuleStore {
	return &pendingRuleStore{pending: make(map[string]pendingRuleState)}
}

func (p *pendingRuleStore) put(key string, st pendingRuleState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Expire abandoned pickers while we are here.
	for k, v := range p.pending {
		if time.Since(v.created) > pendingRuleTTL {
			delete(p.pending, k)
		}
	}
	p.pending[key] = st
}

func (p *pendingRuleStore) take(key string) (pendingRuleState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.pending[key]
	if ok {
		delete(p.pending, key)
	}
	if ok && time.Since(st.created) > pendingRuleTTL {
		return pendingRuleState{}, false
	}
	return st, ok
}

// HandleCanada records a punishment log, applies the role, arms the release
// timer and notifies everyone involved. When no rule is given a select menu
// is shown first.
func (h *Handlers) HandleCanada(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var (
		targetUser  *discordgo.User
		rule        string
		description string
		duration    string
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			targetUser = opt.UserValue(s)
		case "rule":
			rule = opt.StringValue()
		case "description":
			description = opt.StringValue()
		case "duration":
			duration = opt.StringValue()
		}
	}
	if targetUser == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the target user.")
		return
	}
	if targetUser.Bot {
		utils.SendErrorResponse(s, i, "Bots cannot be sent to Canada.")
		return
	}
	if duration != "" && !policy.ValidDuration(duration) {
		utils.SendErrorResponse(s, i, "Invalid duration. Use forms like 30m, 2h, 3d, 1w, 1mo or indefinite.")
		return
	}

	if rule == "" {
		h.showRulePicker(s, i, targetUser.ID, description, duration)
		return
	}

	h.executeCanada(s, i, targetUser.ID, rule, description, duration)
}

// showRulePicker answers with a rule select menu and parks the rest of the
// invocation until the moderator picks.
func (h *Handlers) showRulePicker(s *discordgo.Session, i *discordgo.InteractionCreate, userID, description, duration string) {
	key := i.ID
	h.pendingRules.put(key, pendingRuleState{
		moderatorID: i.Member.User.ID,
		userID:      userID,
		description: description,
		duration:    duration,
		created:     time.Now(),
	})

	options := make([]discordgo.SelectMenuOption, 0, len(model.RuleViolations))
	for _, r := range model.RuleViolations {
		label := r
		if len(label) > 100 {
			label = label[:100]
		}
		options = append(options, discordgo.SelectMenuOption{Label: label, Value: r})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Which rule was violated?",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    "canada_rules:" + key,
							Placeholder: "Select the rule violation",
							Options:     options,
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Errorf("Failed to show rule picker: %v", err)
	}
}

// HandleRuleSelect resumes a parked /canada once the moderator has picked a
// rule from the menu.
func (h *Handlers) HandleRuleSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	key := data.CustomID[len("canada_rules:"):]

	st, ok := h.pendingRules.take(key)
	if !ok {
		utils.SendErrorResponse(s, i, "This punishment prompt has expired. Run /canada again.")
		return
	}
	if i.Member == nil || i.Member.User.ID != st.moderatorID {
		utils.SendErrorResponse(s, i, "Only the moderator who started this command can pick the rule.")
		return
	}
	if len(data.Values) == 0 {
		return
	}
	h.executeCanada(s, i, st.userID, data.Values[0], st.description, st.duration)
}

// executeCanada is the shared tail of both entry paths: by now we have a
// target, a rule and possibly an explicit duration.
func (h *Handlers) executeCanada(s *discordgo.Session, i *discordgo.InteractionCreate, userID, rule, description, duration string) {
	b := h.bot
	guildID := i.GuildID
	moderatorID := i.Member.User.ID

	// The role grant, store write and log post can outrun the interaction
	// window, so acknowledge first and follow up when done.
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer response: %v", err)
		return
	}

	if duration == "" {
		duration = b.Policy.AutomaticDuration(guildID, userID, rule)
	}

	seconds, indefinite, err := policy.ParseDuration(duration)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("Invalid duration %q.", duration))
		return
	}

	now := time.Now().UTC().Unix()
	var releaseTime *int64
	if !indefinite {
		rt := now + seconds
		releaseTime = &rt
	}

	if err := b.Platform.ApplySanctionRole(guildID, userID); err != nil {
		log.Errorf("Failed to apply punishment role: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Could not apply the punishment role. Check the bot's role position.")
		return
	}

	rec := model.PunishmentLog{
		GuildID:         guildID,
		UserID:          userID,
		RuleViolation:   rule,
		Description:     description,
		Punishment:      fmt.Sprintf("Canada (%s)", duration),
		ReleaseTime:     releaseTime,
		PunishmentStart: now,
		ModeratorID:     moderatorID,
	}
	logNumber, err := b.Store.CreateLog(rec)
	if err != nil {
		log.Errorf("Failed to save punishment log: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "The role was applied but the log could not be saved.")
		return
	}

	if releaseTime != nil {
		b.Scheduler.ArmRelease(guildID, userID, *releaseTime)
	}

	entry := b.Store.GetLog(guildID, logNumber)
	if entry != nil {
		b.Platform.PostLogMessage(entry, b.Store.TotalLogs(guildID))
		b.Platform.NotifyPunished(entry)
	}

	if b.Archive != nil {
		if err := b.Archive.RecordSanction(guildID, userID, moderatorID, stats.ActionCanada, rule); err != nil {
			log.Warnf("Failed to archive sanction: %v", err)
		}
	}

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("<@%s> has been sent to Canada for %s (log #%d).", userID, duration, logNumber))

	// Repeat offenders may warrant escalation to a temp ban; ask the
	// moderators rather than acting automatically.
	if sug := b.Policy.TempBanSuggestion(guildID, userID, rule); sug != nil {
		h.proposeTempBan(s, guildID, userID, moderatorID, sug)
	}
}
