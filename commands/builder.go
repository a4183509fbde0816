package commands

import (
	"github.com/bwmarrin/discordgo"

	"canadian-helper/commands/defs"
)

// All returns every slash command the bot registers on its guild.
func All() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Setup,
		defs.Canada,
		defs.Release,
		defs.Edit,
		defs.Extend,
		defs.Reduce,
		defs.Delete,
		defs.Retract,
		defs.Check,
		defs.Warn,
		defs.WarnRemove,
		defs.TempBan,
		defs.TempBans,
		defs.TempBanCancel,
		defs.ManageRoles,
		defs.CheckConfig,
		defs.CleanupPunishments,
		defs.Status,
	}
}
