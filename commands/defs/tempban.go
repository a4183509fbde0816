package defs

import "github.com/bwmarrin/discordgo"

var TempBan = &discordgo.ApplicationCommand{
	Name:        "tempban",
	Description: "Temporarily ban a user",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to ban",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Ban length such as 1w, 1mo, 6mo or indefinite",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the ban",
			Required:    true,
		},
	},
}

var TempBans = &discordgo.ApplicationCommand{
	Name:        "tempbans",
	Description: "List active temporary bans",
}

var TempBanCancel = &discordgo.ApplicationCommand{
	Name:        "tempban_cancel",
	Description: "Lift a temporary ban early",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user_id",
			Description: "ID of the banned user",
			Required:    true,
		},
	},
}
