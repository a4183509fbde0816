package storage

import (
	"time"

	"canadian-helper/model"
)

type tempBansFileData struct {
	TempBans []model.TempBan `json:"temp_bans"`
}

// CreateTempBan appends a temp ban record.
func (s *Store) CreateTempBan(rec model.TempBan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data tempBansFileData
	s.load(tempBansFile, &data)

	if rec.BannedAt == 0 {
		rec.BannedAt = time.Now().UTC().Unix()
	}
	data.TempBans = append(data.TempBans, rec)
	return s.save(tempBansFile, &data)
}

// ActiveTempBans returns bans not yet lifted. An empty guildID matches all.
func (s *Store) ActiveTempBans(guildID string) []model.TempBan {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data tempBansFileData
	s.load(tempBansFile, &data)

	var out []model.TempBan
	for _, b := range data.TempBans {
		if !b.Unbanned && (guildID == "" || b.GuildID == guildID) {
			out = append(out, b)
		}
	}
	return out
}

// OverdueTempBans returns bans whose unban time has passed but which have not
// been lifted yet.
func (s *Store) OverdueTempBans(guildID string) []model.TempBan {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data tempBansFileData
	s.load(tempBansFile, &data)

	now := time.Now().UTC().Unix()
	var out []model.TempBan
	for _, b := range data.TempBans {
		if b.OverdueAt(now) && (guildID == "" || b.GuildID == guildID) {
			out = append(out, b)
		}
	}
	return out
}

// CompleteTempBan marks a ban as lifted. Matched by subject and unban time so
// the timer and the sweep can race; a second call matches nothing and is a
// no-op.
func (s *Store) CompleteTempBan(guildID, userID string, unbanTime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data tempBansFileData
	s.load(tempBansFile, &data)

	for i := range data.TempBans {
		b := &data.TempBans[i]
		if b.GuildID != guildID || b.UserID != userID || b.Unbanned {
			continue
		}
		if b.UnbanTime == nil || *b.UnbanTime != unbanTime {
			continue
		}
		now := time.Now().UTC().Unix()
		b.Unbanned = true
		b.UnbannedAt = &now
		return s.save(tempBansFile, &data)
	}
	return nil
}

// CancelTempBan marks a user's active ban as lifted early by a moderator.
// Returns false if the user has no active ban.
func (s *Store) CancelTempBan(guildID, userID, cancelledBy string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data tempBansFileData
	s.load(tempBansFile, &data)

	for i := range data.TempBans {
		b := &data.TempBans[i]
		if b.GuildID != guildID || b.UserID != userID || b.Unbanned {
			continue
		}
		now := time.Now().UTC().Unix()
		b.Unbanned = true
		b.UnbannedAt = &now
		b.CancelledEarly = true
		b.CancelledBy = cancelledBy
		if err := s.save(tempBansFile, &data); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ActiveTempBanFor returns the user's active ban, or nil.
func (s *Store) ActiveTempBanFor(guildID, userID string) *model.TempBan {
	for _, b := range s.ActiveTempBans(guildID) {
		if b.UserID == userID {
			ban := b
			return &ban
		}
	}
	return nil
}
