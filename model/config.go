package model

// Config holds the process configuration loaded from the environment plus the
// punishment policy loaded from data/punishment_config.json.
type Config struct {
	BotToken string
	AppID    string

	// The bot serves exactly one guild; commands from anywhere else are refused.
	AllowedGuildID string

	DataDir string

	// Fallback role id used until /setup has written one to the config store.
	CanadaRoleID string

	WarningLogChannelID string
	BanLogChannelID     string
	AppealChannelID     string

	AppealFormURL string
	InviteURL     string

	StatsDBPath       string
	StatsChannelID    string
	DisableStartupFix bool

	Policy PunishmentPolicy
}

// PunishmentPolicy drives automatic duration calculation and temp-ban
// escalation suggestions. Keys are bare rule numbers ("1", "8") plus the
// literal "default"; escalation entries may also use "<rule>_continued".
type PunishmentPolicy struct {
	BaseTimes        map[string]string      `mapstructure:"base_times" json:"base_times"`
	PerPriorOffense  map[string]string      `mapstructure:"per_prior_offense" json:"per_prior_offense"`
	TempBanRules     map[string]TempBanRule `mapstructure:"temp_ban_rules" json:"temp_ban_rules"`
	TempBanChannelID string                 `mapstructure:"temp_ban_channel_id" json:"temp_ban_channel_id"`
}

// TempBanRule is one entry of the escalation table.
type TempBanRule struct {
	Description string `mapstructure:"description" json:"description"`
	Duration    string `mapstructure:"duration" json:"duration"`
	Trigger     string `mapstructure:"trigger" json:"trigger"`
}

// RuleViolations are the selectable options for the rule picker shown when
// /canada is invoked without an explicit rule.
var RuleViolations = []string{
	"§1 - PG-13 server, follow Discord Community Guidelines",
	"§2 - No discriminatory or derogatory language",
	"§3 - No harassment or unauthorized recordings",
	"§4 - No spam or flooding chat",
	"§5 - No ghost ping or mass ping",
	"§6 - No election fraud participation",
	"§7 - No hacking server or users",
	"§8 - No penalty evasion or multiple accounts",
	"§9 - No lying to staff",
	"§10 - No misrepresentation of yourself or others",
	"§11 - No OOC information in roleplay",
	"§12 - No character manipulation for unfair advantage",
	"§13 - No trolling or toxic behavior",
	"§14 - No server advertising",
	"§15 - No alternate accounts for advantage/avoidance",
	"Other",
}
