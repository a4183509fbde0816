package defs

import "github.com/bwmarrin/discordgo"

var Setup = &discordgo.ApplicationCommand{
	Name:        "setup",
	Description: "Configure the punishment role and log channel",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "canada_role",
			Description: "Role applied to punished users",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "log_channel",
			Description: "Channel that receives punishment logs",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "tempban_channel",
			Description: "Channel for temp-ban confirmations",
			Required:    false,
		},
	},
}

var ManageRoles = &discordgo.ApplicationCommand{
	Name:        "manage_roles",
	Description: "Manage which roles may use moderation commands",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "action",
			Description: "What to do",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "add", Value: "add"},
				{Name: "remove", Value: "remove"},
				{Name: "list", Value: "list"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "Role to add or remove",
			Required:    false,
		},
	},
}

var CheckConfig = &discordgo.ApplicationCommand{
	Name:        "check_config",
	Description: "Show the current bot configuration",
}

var CleanupPunishments = &discordgo.ApplicationCommand{
	Name:        "cleanup_punishments",
	Description: "Run an immediate sweep for overdue punishments and bans",
}

var Status = &discordgo.ApplicationCommand{
	Name:        "status",
	Description: "Show bot health and resource usage",
}
