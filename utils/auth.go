package utils

import (
	"github.com/bwmarrin/discordgo"

	"canadian-helper/storage"
)

// HasModeratorAccess reports whether the invoking member may use moderation
// commands: either they have the Administrator permission or they carry a
// role on the guild's allow-list.
func HasModeratorAccess(i *discordgo.InteractionCreate, store *storage.Store) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, roleID := range i.Member.Roles {
		if store.IsRoleAllowed(i.GuildID, roleID) {
			return true
		}
	}
	return false
}

// IsAdministrator reports whether the invoking member has the Administrator
// permission. Configuration commands require this regardless of the role
// allow-list.
func IsAdministrator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
