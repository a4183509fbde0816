package defs

import (
	"github.com/bwmarrin/discordgo"

	"canadian-helper/model"
)

func ruleChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.RuleViolations))
	for _, r := range model.RuleViolations {
		name := r
		if len(name) > 100 {
			name = name[:100]
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: r,
		})
	}
	return choices
}

var Canada = &discordgo.ApplicationCommand{
	Name:        "canada",
	Description: "Send a user to Canada for a rule violation",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to punish",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "description",
			Description: "What happened",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "rule",
			Description: "Rule that was violated (a picker is shown when omitted)",
			Required:    false,
			Choices:     ruleChoices(),
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Duration such as 30m, 2h, 3d, 1w, 1mo or indefinite (automatic when omitted)",
			Required:    false,
		},
	},
}

var Release = &discordgo.ApplicationCommand{
	Name:        "release",
	Description: "Release a user from Canada early",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to release",
			Required:    true,
		},
	},
}
