// Package platform wraps the Discord session behind the operations the core
// needs: grant/revoke the punishment role, ban/unban, best-effort DMs and
// channel logs. The core never depends on the best-effort calls succeeding.
package platform

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"canadian-helper/model"
	"canadian-helper/storage"
)

// Discord implements the platform boundary over a live discordgo session.
type Discord struct {
	session *discordgo.Session
	store   *storage.Store
	cfg     *model.Config
}

// NewDiscord creates the platform layer. The store supplies the configured
// role and channel ids; cfg supplies env-level fallbacks.
func NewDiscord(session *discordgo.Session, store *storage.Store, cfg *model.Config) *Discord {
	return &Discord{session: session, store: store, cfg: cfg}
}

// CanadaRoleID returns the configured punishment role id, falling back to the
// env value until /setup has written one.
func (d *Discord) CanadaRoleID() string {
	if id := d.store.GetConfig(storage.KeyCanadaRoleID); id != "" {
		return id
	}
	return d.cfg.CanadaRoleID
}

// LogChannelID returns the configured punishment log channel id.
func (d *Discord) LogChannelID() string {
	return d.store.GetConfig(storage.KeyLogChannelID)
}

// TempBanChannelID returns the temp-ban confirmation channel, preferring the
// config store over the policy file.
func (d *Discord) TempBanChannelID() string {
	if id := d.store.GetConfig(storage.KeyTempBanChannelID); id != "" {
		return id
	}
	return d.cfg.Policy.TempBanChannelID
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}

// HasSanctionRole resolves the subject and reports whether they carry the
// punishment role. A 404 means the subject left the guild, which is a normal
// outcome, not an error.
func (d *Discord) HasSanctionRole(guildID, userID string) (member bool, hasRole bool, err error) {
	m, err := d.session.GuildMember(guildID, userID)
	if err != nil {
		if isNotFound(err) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}
	roleID := d.CanadaRoleID()
	for _, r := range m.Roles {
		if r == roleID {
			return true, true, nil
		}
	}
	return true, false, nil
}

// ApplySanctionRole grants the punishment role.
func (d *Discord) ApplySanctionRole(guildID, userID string) error {
	if err := d.session.GuildMemberRoleAdd(guildID, userID, d.CanadaRoleID()); err != nil {
		return fmt.Errorf("failed to add punishment role to user %s: %w", userID, err)
	}
	return nil
}

// RemoveSanctionRole lifts the punishment role.
func (d *Discord) RemoveSanctionRole(guildID, userID string) error {
	if err := d.session.GuildMemberRoleRemove(guildID, userID, d.CanadaRoleID()); err != nil {
		return fmt.Errorf("failed to remove punishment role from user %s: %w", userID, err)
	}
	return nil
}

// Ban bans the subject without deleting message history.
func (d *Discord) Ban(guildID, userID, reason string) error {
	if err := d.session.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
		return fmt.Errorf("failed to ban user %s: %w", userID, err)
	}
	return nil
}

// Unban lifts a ban. found is false when the subject is not banned (or is
// unknown to the platform); there is nothing left to reverse in that case.
func (d *Discord) Unban(guildID, userID string) (bool, error) {
	if err := d.session.GuildBanDelete(guildID, userID); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to unban user %s: %w", userID, err)
	}
	return true, nil
}

// TrySendDM delivers an embed to the subject's DMs and reports failure, so
// callers with a fallback channel can redirect the notice.
func (d *Discord) TrySendDM(userID string, embed *discordgo.MessageEmbed) error {
	channel, err := d.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel with user %s: %w", userID, err)
	}
	if _, err := d.session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		return fmt.Errorf("failed to DM user %s: %w", userID, err)
	}
	return nil
}

// SendDM delivers an embed to the subject's DMs. Best-effort: users with DMs
// closed are expected, so the failure is logged and swallowed.
func (d *Discord) SendDM(userID string, embed *discordgo.MessageEmbed) {
	if err := d.TrySendDM(userID, embed); err != nil {
		log.Debugf("Dropping DM: %v", err)
	}
}

// SendChannelEmbed posts an embed to a channel, best-effort.
func (d *Discord) SendChannelEmbed(channelID string, embed *discordgo.MessageEmbed) *discordgo.Message {
	if channelID == "" {
		return nil
	}
	msg, err := d.session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		log.Errorf("Failed to send embed to channel %s: %v", channelID, err)
		return nil
	}
	return msg
}
