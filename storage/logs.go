package storage

import (
	"fmt"
	"time"

	"canadian-helper/model"
)

type logsFileData struct {
	Logs      []model.PunishmentLog `json:"logs"`
	NextLogID int64                 `json:"next_log_id"`
}

func (s *Store) loadLogs() logsFileData {
	data := logsFileData{NextLogID: 1}
	s.load(logsFile, &data)
	if data.NextLogID < 1 {
		data.NextLogID = 1
	}
	return data
}

// CreateLog appends a new punishment log and returns its per-guild log number.
// Log numbers are allocated max+1 over the guild's non-deleted records, so a
// number is never reused even after the record that held it is deleted;
// retracted records keep their number.
func (s *Store) CreateLog(rec model.PunishmentLog) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()

	maxNumber := 0
	for _, l := range data.Logs {
		if l.GuildID == rec.GuildID && l.LogNumber > maxNumber {
			maxNumber = l.LogNumber
		}
	}

	now := time.Now().UTC().Unix()
	rec.ID = data.NextLogID
	rec.LogNumber = maxNumber + 1
	rec.CreatedAt = now
	if rec.PunishmentStart == 0 {
		rec.PunishmentStart = now
	}

	data.Logs = append(data.Logs, rec)
	data.NextLogID++

	if err := s.save(logsFile, &data); err != nil {
		return 0, err
	}
	return rec.LogNumber, nil
}

// GetLog returns the log with the given per-guild number, or nil if absent.
func (s *Store) GetLog(guildID string, logNumber int) *model.PunishmentLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	for i := range data.Logs {
		if data.Logs[i].GuildID == guildID && data.Logs[i].LogNumber == logNumber {
			rec := data.Logs[i]
			return &rec
		}
	}
	return nil
}

// LogUpdate carries the fields UpdateLog may change; nil means leave as is.
type LogUpdate struct {
	UserID        *string
	RuleViolation *string
	Description   *string
	Punishment    *string
	ReleaseTime   *int64
}

// UpdateLog applies a partial edit to a log entry.
func (s *Store) UpdateLog(guildID string, logNumber int, upd LogUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	for i := range data.Logs {
		l := &data.Logs[i]
		if l.GuildID != guildID || l.LogNumber != logNumber {
			continue
		}
		if upd.UserID != nil {
			l.UserID = *upd.UserID
		}
		if upd.RuleViolation != nil {
			l.RuleViolation = *upd.RuleViolation
		}
		if upd.Description != nil {
			l.Description = *upd.Description
		}
		if upd.Punishment != nil {
			l.Punishment = *upd.Punishment
		}
		if upd.ReleaseTime != nil {
			l.ReleaseTime = upd.ReleaseTime
		}
		l.UpdatedAt = time.Now().UTC().Unix()
		return s.save(logsFile, &data)
	}
	return fmt.Errorf("log #%d not found in guild %s", logNumber, guildID)
}

// SetLogMessageID records the id of the log channel message for later edits.
func (s *Store) SetLogMessageID(guildID string, logNumber int, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	for i := range data.Logs {
		if data.Logs[i].GuildID == guildID && data.Logs[i].LogNumber == logNumber {
			data.Logs[i].MessageID = messageID
			return s.save(logsFile, &data)
		}
	}
	return fmt.Errorf("log #%d not found in guild %s", logNumber, guildID)
}

// DeleteLog physically removes a log entry.
func (s *Store) DeleteLog(guildID string, logNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	kept := data.Logs[:0]
	removed := false
	for _, l := range data.Logs {
		if l.GuildID == guildID && l.LogNumber == logNumber {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return fmt.Errorf("log #%d not found in guild %s", logNumber, guildID)
	}
	data.Logs = kept
	return s.save(logsFile, &data)
}

// SetRetracted voids (or restores) a log entry. Retracting clears the release
// time so the record drops out of the active and overdue sets.
func (s *Store) SetRetracted(guildID string, logNumber int, retracted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	for i := range data.Logs {
		l := &data.Logs[i]
		if l.GuildID != guildID || l.LogNumber != logNumber {
			continue
		}
		l.Retracted = retracted
		if retracted {
			l.ReleaseTime = nil
		}
		l.UpdatedAt = time.Now().UTC().Unix()
		return s.save(logsFile, &data)
	}
	return fmt.Errorf("log #%d not found in guild %s", logNumber, guildID)
}

// CompletePunishment marks a punishment as carried out: the release time is
// cleared and the completion stamped. The record is matched by subject and
// release time, so the scheduler's timer and the sweep can both try to complete
// the same punishment; whichever loses finds nothing left to match and the call
// is a no-op.
func (s *Store) CompletePunishment(guildID, userID string, releaseTime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	for i := range data.Logs {
		l := &data.Logs[i]
		if l.GuildID != guildID || l.UserID != userID {
			continue
		}
		if l.ReleaseTime == nil || *l.ReleaseTime != releaseTime {
			continue
		}
		now := time.Now().UTC().Unix()
		l.ReleaseTime = nil
		l.CompletedAt = &now
		return s.save(logsFile, &data)
	}
	return nil
}

// ActivePunishments returns records with a pending reversal. An empty guildID
// matches all guilds.
func (s *Store) ActivePunishments(guildID string) []model.PunishmentLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Unix()
	data := s.loadLogs()
	var out []model.PunishmentLog
	for _, l := range data.Logs {
		if l.ActiveAt(now) && (guildID == "" || l.GuildID == guildID) {
			out = append(out, l)
		}
	}
	return out
}

// OverduePunishments returns active records whose release time has passed.
func (s *Store) OverduePunishments(guildID string) []model.PunishmentLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Unix()
	data := s.loadLogs()
	var out []model.PunishmentLog
	for _, l := range data.Logs {
		if l.OverdueAt(now) && (guildID == "" || l.GuildID == guildID) {
			out = append(out, l)
		}
	}
	return out
}

// UserPunishments returns all of a user's log entries in a guild, retracted
// ones included unless includeRetracted is false.
func (s *Store) UserPunishments(guildID, userID string, includeRetracted bool) []model.PunishmentLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	var out []model.PunishmentLog
	for _, l := range data.Logs {
		if l.GuildID != guildID || l.UserID != userID {
			continue
		}
		if !includeRetracted && l.Retracted {
			continue
		}
		out = append(out, l)
	}
	return out
}

// PunishmentCount counts a user's non-retracted log entries in a guild. The
// policy engine uses this as the prior-offense count.
func (s *Store) PunishmentCount(guildID, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	count := 0
	for _, l := range data.Logs {
		if l.GuildID == guildID && l.UserID == userID && !l.Retracted {
			count++
		}
	}
	return count
}

// TotalLogs counts every non-retracted log entry in a guild, shown in the
// footer of posted log embeds.
func (s *Store) TotalLogs(guildID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadLogs()
	count := 0
	for _, l := range data.Logs {
		if l.GuildID == guildID && !l.Retracted {
			count++
		}
	}
	return count
}

// PurgeOtherGuilds drops logs, warnings and temp bans belonging to any guild
// other than the one given. Run once at startup; the bot serves a single
// guild and stale records from elsewhere would otherwise sit in the files
// forever.
func (s *Store) PurgeOtherGuilds(guildID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0

	logs := s.loadLogs()
	keptLogs := logs.Logs[:0]
	for _, l := range logs.Logs {
		if l.GuildID == guildID {
			keptLogs = append(keptLogs, l)
		}
	}
	if n := len(logs.Logs) - len(keptLogs); n > 0 {
		removed += n
		logs.Logs = keptLogs
		if err := s.save(logsFile, &logs); err != nil {
			return removed, err
		}
	}

	warnings := s.loadWarnings()
	keptWarnings := warnings.Warnings[:0]
	for _, w := range warnings.Warnings {
		if w.GuildID == guildID {
			keptWarnings = append(keptWarnings, w)
		}
	}
	if n := len(warnings.Warnings) - len(keptWarnings); n > 0 {
		removed += n
		warnings.Warnings = keptWarnings
		if err := s.save(warningsFile, &warnings); err != nil {
			return removed, err
		}
	}

	var bans tempBansFileData
	s.load(tempBansFile, &bans)
	keptBans := bans.TempBans[:0]
	for _, b := range bans.TempBans {
		if b.GuildID == guildID {
			keptBans = append(keptBans, b)
		}
	}
	if n := len(bans.TempBans) - len(keptBans); n > 0 {
		removed += n
		bans.TempBans = keptBans
		if err := s.save(tempBansFile, &bans); err != nil {
			return removed, err
		}
	}

	return removed, nil
}
