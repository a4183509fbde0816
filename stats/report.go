package stats

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/storage"
)

// ReportInterval is how often the activity report embed is refreshed.
const ReportInterval = time.Hour

// reportWindow is the lookback period covered by the report.
const reportWindow = 30 * 24 * time.Hour

// Reporter periodically renders moderator activity into a single pinned-style
// embed, edited in place across restarts.
type Reporter struct {
	archive   *Archive
	store     *storage.Store
	session   *discordgo.Session
	guildID   string
	channelID string

	done chan struct{}
	wg   sync.WaitGroup
}

// NewReporter creates a reporter for one guild. channelID may be empty, in
// which case Start is a no-op.
func NewReporter(archive *Archive, store *storage.Store, session *discordgo.Session, guildID, channelID string) *Reporter {
	return &Reporter{
		archive:   archive,
		store:     store,
		session:   session,
		guildID:   guildID,
		channelID: channelID,
		done:      make(chan struct{}),
	}
}

// Start begins the periodic refresh loop.
func (r *Reporter) Start() {
	if r.channelID == "" {
		log.Info("Stats channel not configured, activity report disabled")
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.refresh()
		ticker := time.NewTicker(ReportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.refresh()
			case <-r.done:
				return
			}
		}
	}()
	log.Infof("Activity report started (every %s)", ReportInterval)
}

// Stop halts the refresh loop and waits for it to exit.
func (r *Reporter) Stop() {
	close(r.done)
	r.wg.Wait()
}

func (r *Reporter) refresh() {
	embed, err := r.buildEmbed()
	if err != nil {
		log.Errorf("Failed to build activity report: %v", err)
		return
	}

	// Edit the existing report message when we still know it, otherwise
	// post a fresh one and remember its id.
	if msgID := r.store.GetConfig(storage.KeyStatsMessageID); msgID != "" {
		if _, err := r.session.ChannelMessageEditEmbed(r.channelID, msgID, embed); err == nil {
			return
		}
	}
	msg, err := r.session.ChannelMessageSendEmbed(r.channelID, embed)
	if err != nil {
		log.Errorf("Failed to post activity report: %v", err)
		return
	}
	if err := r.store.SetConfig(storage.KeyStatsMessageID, msg.ID); err != nil {
		log.Errorf("Failed to save activity report message id: %v", err)
	}
}

func (r *Reporter) buildEmbed() (*discordgo.MessageEmbed, error) {
	since := time.Now().Add(-reportWindow)

	mods, err := r.archive.ModeratorStats(r.guildID, since)
	if err != nil {
		return nil, err
	}
	actions, err := r.archive.ActionCounts(r.guildID, since)
	if err != nil {
		return nil, err
	}
	total, err := r.archive.TotalCount(r.guildID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if len(mods) == 0 {
		sb.WriteString("No moderation actions in the last 30 days.")
	}
	for i, m := range mods {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&sb, "%d. <@%s>: %d actions\n", i+1, m.ModeratorID, m.Count)
	}

	return &discordgo.MessageEmbed{
		Title:       "Moderation activity (last 30 days)",
		Description: sb.String(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Canada", Value: fmt.Sprintf("%d", actions[ActionCanada]), Inline: true},
			{Name: "Warnings", Value: fmt.Sprintf("%d", actions[ActionWarn]), Inline: true},
			{Name: "Temp bans", Value: fmt.Sprintf("%d", actions[ActionTempBan]), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("All-time actions: %d", total),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}, nil
}
