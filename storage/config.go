package storage

// Config keys written by /setup and read wherever a channel or role id is
// needed. Values are plain strings interpreted by the caller.
const (
	KeyLogChannelID     = "log_channel_id"
	KeyCanadaRoleID     = "canada_role_id"
	KeyTempBanChannelID = "temp_ban_channel_id"
	KeyStatsMessageID   = "stats_message_id"
)

// GetConfig returns a configuration value, empty string if unset.
func (s *Store) GetConfig(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := map[string]string{}
	s.load(configFile, &data)
	return data[key]
}

// SetConfig writes a configuration value.
func (s *Store) SetConfig(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := map[string]string{}
	s.load(configFile, &data)
	data[key] = value
	return s.save(configFile, &data)
}

// AllConfig returns a copy of the whole configuration map.
func (s *Store) AllConfig() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := map[string]string{}
	s.load(configFile, &data)
	return data
}
