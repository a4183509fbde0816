package defs

import "github.com/bwmarrin/discordgo"

var Warn = &discordgo.ApplicationCommand{
	Name:        "warn",
	Description: "Warn a user",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to warn",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the warning",
			Required:    true,
		},
	},
}

var WarnRemove = &discordgo.ApplicationCommand{
	Name:        "warn_remove",
	Description: "Remove a warning",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "warning_number",
			Description: "Warning number to remove",
			Required:    true,
		},
	},
}
