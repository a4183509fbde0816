package model

// Warning is a cumulative warning record. Warnings never expire.
type Warning struct {
	ID            int64  `json:"id"`
	WarningNumber int    `json:"warning_number"`
	GuildID       string `json:"guild_id"`
	UserID        string `json:"user_id"`
	Reason        string `json:"reason"`
	ModeratorID   string `json:"moderator_id"`
	CreatedAt     int64  `json:"created_at"`
	MessageID     string `json:"message_id,omitempty"`
}
