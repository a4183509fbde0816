package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canadian-helper/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func timedLog(guildID, userID string, releaseIn time.Duration) model.PunishmentLog {
	rt := time.Now().UTC().Add(releaseIn).Unix()
	return model.PunishmentLog{
		GuildID:       guildID,
		UserID:        userID,
		RuleViolation: "§4 - No spam",
		Description:   "spamming",
		Punishment:    "Canada (2h)",
		ReleaseTime:   &rt,
		ModeratorID:   "mod",
	}
}

func TestCreateLogNumbersArePerGuildAndNeverReused(t *testing.T) {
	s := newTestStore(t)

	n1, err := s.CreateLog(timedLog("g1", "u1", time.Hour))
	require.NoError(t, err)
	n2, err := s.CreateLog(timedLog("g1", "u2", time.Hour))
	require.NoError(t, err)
	other, err := s.CreateLog(timedLog("g2", "u1", time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, n1)
	assert.Equal(t, 2, n2)
	assert.Equal(t, 1, other, "numbering is per guild")

	// Deleting the newest entry must not free its number for reuse.
	require.NoError(t, s.DeleteLog("g1", n2))
	n3, err := s.CreateLog(timedLog("g1", "u3", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n3, "max+1 numbering reuses a trailing gap")
}

func TestCompletePunishmentIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	rec := timedLog("g1", "u1", time.Hour)
	n, err := s.CreateLog(rec)
	require.NoError(t, err)

	entry := s.GetLog("g1", n)
	require.NotNil(t, entry)
	require.NotNil(t, entry.ReleaseTime)
	releaseTime := *entry.ReleaseTime

	require.NoError(t, s.CompletePunishment("g1", "u1", releaseTime))
	completed := s.GetLog("g1", n)
	require.NotNil(t, completed)
	assert.Nil(t, completed.ReleaseTime)
	require.NotNil(t, completed.CompletedAt)
	first := *completed.CompletedAt

	// Second completion matches nothing and changes nothing.
	require.NoError(t, s.CompletePunishment("g1", "u1", releaseTime))
	again := s.GetLog("g1", n)
	require.NotNil(t, again.CompletedAt)
	assert.Equal(t, first, *again.CompletedAt)

	assert.Empty(t, s.ActivePunishments("g1"))
}

func TestCompletePunishmentRequiresMatchingReleaseTime(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CreateLog(timedLog("g1", "u1", time.Hour))
	require.NoError(t, err)
	entry := s.GetLog("g1", n)
	require.NotNil(t, entry.ReleaseTime)

	// A stale completion (extended punishment, old timer fires) must miss.
	require.NoError(t, s.CompletePunishment("g1", "u1", *entry.ReleaseTime+600))
	assert.Len(t, s.ActivePunishments("g1"), 1)
}

func TestRetractVoidsButKeepsRecord(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CreateLog(timedLog("g1", "u1", time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.SetRetracted("g1", n, true))

	entry := s.GetLog("g1", n)
	require.NotNil(t, entry, "retracted logs stay retrievable")
	assert.True(t, entry.Retracted)
	assert.Nil(t, entry.ReleaseTime)
	assert.Empty(t, s.ActivePunishments("g1"))

	assert.Zero(t, s.PunishmentCount("g1", "u1"), "retracted logs do not count as priors")
	assert.Len(t, s.UserPunishments("g1", "u1", true), 1)
	assert.Empty(t, s.UserPunishments("g1", "u1", false))
}

func TestUpdateLogPartialEdit(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CreateLog(timedLog("g1", "u1", time.Hour))
	require.NoError(t, err)

	desc := "edited description"
	require.NoError(t, s.UpdateLog("g1", n, LogUpdate{Description: &desc}))

	entry := s.GetLog("g1", n)
	assert.Equal(t, "edited description", entry.Description)
	assert.Equal(t, "§4 - No spam", entry.RuleViolation, "untouched fields survive")
	assert.NotNil(t, entry.ReleaseTime)
}

func TestCorruptLogsFileTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs.json"), []byte("{not json"), 0644))

	s, err := New(dir)
	require.NoError(t, err)

	assert.Empty(t, s.ActivePunishments(""))
	n, err := s.CreateLog(timedLog("g1", "u1", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAllowedRolesPerGuild(t *testing.T) {
	s := newTestStore(t)

	added, err := s.AddAllowedRole("g1", "r1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddAllowedRole("g1", "r1")
	require.NoError(t, err)
	assert.False(t, added, "duplicate add reports not-added without error")

	assert.True(t, s.IsRoleAllowed("g1", "r1"))
	assert.False(t, s.IsRoleAllowed("g2", "r1"), "allow-lists are independent per guild")

	removed, err := s.RemoveAllowedRole("g1", "r1")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, s.IsRoleAllowed("g1", "r1"))

	removed, err = s.RemoveAllowedRole("g1", "r1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCompleteTempBanIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	ut := time.Now().UTC().Add(time.Hour).Unix()
	require.NoError(t, s.CreateTempBan(model.TempBan{
		GuildID: "g1", UserID: "u1", ModeratorID: "mod",
		LogNumber: 1, Duration: "1h", UnbanTime: &ut, Reason: "spam",
	}))

	require.NoError(t, s.CompleteTempBan("g1", "u1", ut))
	assert.Empty(t, s.ActiveTempBans("g1"))

	require.NoError(t, s.CompleteTempBan("g1", "u1", ut))
	assert.Empty(t, s.ActiveTempBans("g1"))
}

func TestCancelTempBanRecordsModerator(t *testing.T) {
	s := newTestStore(t)

	ut := time.Now().UTC().Add(time.Hour).Unix()
	require.NoError(t, s.CreateTempBan(model.TempBan{
		GuildID: "g1", UserID: "u1", UnbanTime: &ut, Duration: "1h",
	}))

	cancelled, err := s.CancelTempBan("g1", "u1", "mod2")
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.Nil(t, s.ActiveTempBanFor("g1", "u1"))

	cancelled, err = s.CancelTempBan("g1", "u1", "mod2")
	require.NoError(t, err)
	assert.False(t, cancelled, "nothing active left to cancel")
}

func TestPurgeOtherGuilds(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateLog(timedLog("home", "u1", time.Hour))
	require.NoError(t, err)
	_, err = s.CreateLog(timedLog("foreign", "u2", time.Hour))
	require.NoError(t, err)
	_, err = s.CreateWarning(model.Warning{GuildID: "foreign", UserID: "u2", Reason: "x"})
	require.NoError(t, err)

	purged, err := s.PurgeOtherGuilds("home")
	require.NoError(t, err)
	assert.Equal(t, 2, purged)
	assert.Len(t, s.ActivePunishments(""), 1)
}

func TestConfigRoundTrip(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.GetConfig(KeyCanadaRoleID))
	require.NoError(t, s.SetConfig(KeyCanadaRoleID, "12345"))
	assert.Equal(t, "12345", s.GetConfig(KeyCanadaRoleID))

	all := s.AllConfig()
	assert.Equal(t, "12345", all[KeyCanadaRoleID])
}

func TestWarningNumbering(t *testing.T) {
	s := newTestStore(t)

	n1, err := s.CreateWarning(model.Warning{GuildID: "g1", UserID: "u1", Reason: "a"})
	require.NoError(t, err)
	n2, err := s.CreateWarning(model.Warning{GuildID: "g1", UserID: "u2", Reason: "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, n1)
	assert.Equal(t, 2, n2)

	require.NoError(t, s.DeleteWarning("g1", n1))
	assert.Nil(t, s.GetWarning("g1", n1))
	assert.Equal(t, 1, s.WarningCount("g1", "u2"))
}
