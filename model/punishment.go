package model

// PunishmentLog is a single sanction record ("Canada" exile) in the log store.
// LogNumber is the per-guild sequence the moderators refer to; ID is the global
// record id carried in the store file.
type PunishmentLog struct {
	ID              int64  `json:"id"`
	LogNumber       int    `json:"log_number"`
	GuildID         string `json:"guild_id"`
	UserID          string `json:"user_id"`
	RuleViolation   string `json:"rule_violation"`
	Description     string `json:"description"`
	Punishment      string `json:"punishment"` // display label, e.g. "2h" or "indefinite"
	ReleaseTime     *int64 `json:"release_time"`
	PunishmentStart int64  `json:"punishment_start"`
	ModeratorID     string `json:"moderator_id"`
	Retracted       bool   `json:"retracted"`
	MessageID       string `json:"message_id,omitempty"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at,omitempty"`
	CompletedAt     *int64 `json:"completed_at,omitempty"`
}

// Indefinite reports whether the sanction never auto-expires.
func (p *PunishmentLog) Indefinite() bool {
	return p.ReleaseTime == nil && p.CompletedAt == nil
}

// ActiveAt reports whether the sanction still has a pending reversal at the
// given unix time: a release time is set, it has not been carried out, and the
// record has not been voided.
func (p *PunishmentLog) ActiveAt(now int64) bool {
	return p.ReleaseTime != nil && p.CompletedAt == nil && !p.Retracted
}

// OverdueAt reports whether the reversal should already have happened.
func (p *PunishmentLog) OverdueAt(now int64) bool {
	return p.ActiveAt(now) && *p.ReleaseTime <= now
}
