package storage

import (
	"fmt"
	"time"

	"canadian-helper/model"
)

type warningsFileData struct {
	Warnings      []model.Warning `json:"warnings"`
	NextWarningID int64           `json:"next_warning_id"`
}

func (s *Store) loadWarnings() warningsFileData {
	data := warningsFileData{NextWarningID: 1}
	s.load(warningsFile, &data)
	if data.NextWarningID < 1 {
		data.NextWarningID = 1
	}
	return data
}

// CreateWarning appends a warning and returns its per-guild warning number.
func (s *Store) CreateWarning(rec model.Warning) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadWarnings()

	maxNumber := 0
	for _, w := range data.Warnings {
		if w.GuildID == rec.GuildID && w.WarningNumber > maxNumber {
			maxNumber = w.WarningNumber
		}
	}

	rec.ID = data.NextWarningID
	rec.WarningNumber = maxNumber + 1
	rec.CreatedAt = time.Now().UTC().Unix()

	data.Warnings = append(data.Warnings, rec)
	data.NextWarningID++

	if err := s.save(warningsFile, &data); err != nil {
		return 0, err
	}
	return rec.WarningNumber, nil
}

// GetWarning returns the warning with the given per-guild number, or nil.
func (s *Store) GetWarning(guildID string, warningNumber int) *model.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadWarnings()
	for i := range data.Warnings {
		if data.Warnings[i].GuildID == guildID && data.Warnings[i].WarningNumber == warningNumber {
			rec := data.Warnings[i]
			return &rec
		}
	}
	return nil
}

// SetWarningMessageID records the warning log channel message id.
func (s *Store) SetWarningMessageID(guildID string, warningNumber int, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadWarnings()
	for i := range data.Warnings {
		if data.Warnings[i].GuildID == guildID && data.Warnings[i].WarningNumber == warningNumber {
			data.Warnings[i].MessageID = messageID
			return s.save(warningsFile, &data)
		}
	}
	return fmt.Errorf("warning #%d not found in guild %s", warningNumber, guildID)
}

// DeleteWarning removes a warning.
func (s *Store) DeleteWarning(guildID string, warningNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadWarnings()
	kept := data.Warnings[:0]
	removed := false
	for _, w := range data.Warnings {
		if w.GuildID == guildID && w.WarningNumber == warningNumber {
			removed = true
			continue
		}
		kept = append(kept, w)
	}
	if !removed {
		return fmt.Errorf("warning #%d not found in guild %s", warningNumber, guildID)
	}
	data.Warnings = kept
	return s.save(warningsFile, &data)
}

// UserWarnings returns all warnings for a user in a guild.
func (s *Store) UserWarnings(guildID, userID string) []model.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.loadWarnings()
	var out []model.Warning
	for _, w := range data.Warnings {
		if w.GuildID == guildID && w.UserID == userID {
			out = append(out, w)
		}
	}
	return out
}

// WarningCount counts a user's warnings in a guild.
func (s *Store) WarningCount(guildID, userID string) int {
	return len(s.UserWarnings(guildID, userID))
}
