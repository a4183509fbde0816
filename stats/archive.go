// Package stats keeps a sqlite archive of moderation actions, used for the
// periodic moderator activity report.
package stats

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS sanctions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id    TEXT NOT NULL,
	user_id     TEXT NOT NULL,
	moderator_id TEXT NOT NULL,
	action      TEXT NOT NULL,
	rule        TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sanctions_guild_time ON sanctions(guild_id, created_at);
CREATE INDEX IF NOT EXISTS idx_sanctions_moderator ON sanctions(guild_id, moderator_id);
`

// Action labels recorded in the archive.
const (
	ActionCanada  = "canada"
	ActionWarn    = "warn"
	ActionTempBan = "tempban"
)

// Archive is the sqlite-backed action log.
type Archive struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the archive database at path.
func Open(path string) (*Archive, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create stats schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// RecordSanction appends one moderation action to the archive.
func (a *Archive) RecordSanction(guildID, userID, moderatorID, action, rule string) error {
	_, err := a.db.Exec(
		`INSERT INTO sanctions (guild_id, user_id, moderator_id, action, rule, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		guildID, userID, moderatorID, action, rule, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record sanction: %w", err)
	}
	return nil
}

// ModeratorStat is one row of the activity report.
type ModeratorStat struct {
	ModeratorID string `db:"moderator_id"`
	Count       int    `db:"count"`
}

// ModeratorStats returns per-moderator action counts since the given time,
// busiest first.
func (a *Archive) ModeratorStats(guildID string, since time.Time) ([]ModeratorStat, error) {
	var stats []ModeratorStat
	err := a.db.Select(&stats,
		`SELECT moderator_id, COUNT(*) AS count
		 FROM sanctions
		 WHERE guild_id = ? AND created_at >= ?
		 GROUP BY moderator_id
		 ORDER BY count DESC`,
		guildID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query moderator stats: %w", err)
	}
	return stats, nil
}

// TotalCount returns the number of archived actions for a guild.
func (a *Archive) TotalCount(guildID string) (int, error) {
	var n int
	err := a.db.Get(&n, `SELECT COUNT(*) FROM sanctions WHERE guild_id = ?`, guildID)
	if err != nil {
		return 0, fmt.Errorf("failed to count sanctions: %w", err)
	}
	return n, nil
}

// ActionCounts returns counts per action type since the given time.
func (a *Archive) ActionCounts(guildID string, since time.Time) (map[string]int, error) {
	rows := []struct {
		Action string `db:"action"`
		Count  int    `db:"count"`
	}{}
	err := a.db.Select(&rows,
		`SELECT action, COUNT(*) AS count
		 FROM sanctions
		 WHERE guild_id = ? AND created_at >= ?
		 GROUP BY action`,
		guildID, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query action counts: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Action] = r.Count
	}
	return out, nil
}
