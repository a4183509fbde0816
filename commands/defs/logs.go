package defs

import "github.com/bwmarrin/discordgo"

func logNumberOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "log_number",
		Description: "Log number to act on",
		Required:    true,
	}
}

var Edit = &discordgo.ApplicationCommand{
	Name:        "edit",
	Description: "Edit fields of a punishment log",
	Options: []*discordgo.ApplicationCommandOption{
		logNumberOption(),
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "Corrected user",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "rule",
			Description: "Corrected rule violation",
			Required:    false,
			Choices:     ruleChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "description",
			Description: "Corrected description",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "punishment",
			Description: "Corrected punishment text",
			Required:    false,
		},
	},
}

var Extend = &discordgo.ApplicationCommand{
	Name:        "extend",
	Description: "Extend a running punishment",
	Options: []*discordgo.ApplicationCommandOption{
		logNumberOption(),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Time to add, such as 30m, 2h, 3d",
			Required:    true,
		},
	},
}

var Reduce = &discordgo.ApplicationCommand{
	Name:        "reduce",
	Description: "Reduce a running punishment",
	Options: []*discordgo.ApplicationCommandOption{
		logNumberOption(),
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Time to subtract, such as 30m, 2h, 3d",
			Required:    true,
		},
	},
}

var Delete = &discordgo.ApplicationCommand{
	Name:        "delete",
	Description: "Delete a punishment log entirely",
	Options: []*discordgo.ApplicationCommandOption{
		logNumberOption(),
	},
}

var Retract = &discordgo.ApplicationCommand{
	Name:        "retract",
	Description: "Retract a punishment log, keeping it on record",
	Options: []*discordgo.ApplicationCommandOption{
		logNumberOption(),
	},
}

var Check = &discordgo.ApplicationCommand{
	Name:        "check",
	Description: "Show a user's warnings and Canada logs",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to look up",
			Required:    true,
		},
	},
}
