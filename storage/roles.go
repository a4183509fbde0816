package storage

// The role allow-list maps guild id to the role ids permitted to run
// moderation commands. Guilds are fully independent of each other.

// AllowedRoles returns the allow-list for a guild.
func (s *Store) AllowedRoles(guildID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := map[string][]string{}
	s.load(rolesFile, &data)
	return data[guildID]
}

// AddAllowedRole adds a role to a guild's allow-list. The added result is
// false when the role was already present; a save failure is reported through
// err, never conflated with the duplicate case.
func (s *Store) AddAllowedRole(guildID, roleID string) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := map[string][]string{}
	s.load(rolesFile, &data)

	for _, id := range data[guildID] {
		if id == roleID {
			return false, nil
		}
	}
	data[guildID] = append(data[guildID], roleID)
	if err := s.save(rolesFile, &data); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAllowedRole removes a role from a guild's allow-list. Returns false if
// the role was not present. Empty guild entries are dropped from the file.
func (s *Store) RemoveAllowedRole(guildID, roleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := map[string][]string{}
	s.load(rolesFile, &data)

	roles, ok := data[guildID]
	if !ok {
		return false, nil
	}
	kept := roles[:0]
	removed := false
	for _, id := range roles {
		if id == roleID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return false, nil
	}
	if len(kept) == 0 {
		delete(data, guildID)
	} else {
		data[guildID] = kept
	}
	if err := s.save(rolesFile, &data); err != nil {
		return false, err
	}
	return true, nil
}

// IsRoleAllowed reports whether a role is on a guild's allow-list.
func (s *Store) IsRoleAllowed(guildID, roleID string) bool {
	for _, id := range s.AllowedRoles(guildID) {
		if id == roleID {
			return true
		}
	}
	return false
}
