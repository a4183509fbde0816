package model

// TempBan is a temporary ban record. UnbanTime nil means the ban never lifts
// automatically. Unbanned is set once the ban has been reversed, either by the
// scheduler or by an early manual cancel.
type TempBan struct {
	GuildID        string `json:"guild_id"`
	UserID         string `json:"user_id"`
	ModeratorID    string `json:"moderator_id"`
	LogNumber      int    `json:"log_number"`
	Duration       string `json:"duration"`
	UnbanTime      *int64 `json:"unban_time"`
	Reason         string `json:"reason"`
	BannedAt       int64  `json:"banned_at"`
	Unbanned       bool   `json:"unbanned"`
	UnbannedAt     *int64 `json:"unbanned_at,omitempty"`
	CancelledEarly bool   `json:"cancelled_early,omitempty"`
	CancelledBy    string `json:"cancelled_by,omitempty"`
}

// ActiveAt reports whether the ban is still in force at the given unix time.
func (t *TempBan) ActiveAt(now int64) bool {
	return !t.Unbanned
}

// OverdueAt reports whether the automatic unban should already have happened.
func (t *TempBan) OverdueAt(now int64) bool {
	return !t.Unbanned && t.UnbanTime != nil && *t.UnbanTime <= now
}
