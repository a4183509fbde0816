package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canadian-helper/model"
	"canadian-helper/storage"
)

// fakePlatform is an in-memory stand-in for the chat platform. It tracks who
// is present, who carries the sanction role and who is banned, and counts
// every reversal so tests can assert exactly-once behavior.
type fakePlatform struct {
	mu          sync.Mutex
	present     map[string]bool
	hasRole     map[string]bool
	banned      map[string]bool
	resolveErr  error
	removeCalls int
	unbanCalls  int
	released    int
	unbanNotes  int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		present: make(map[string]bool),
		hasRole: make(map[string]bool),
		banned:  make(map[string]bool),
	}
}

func (f *fakePlatform) HasSanctionRole(guildID, userID string) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return false, false, f.resolveErr
	}
	return f.present[userID], f.hasRole[userID], nil
}

func (f *fakePlatform) RemoveSanctionRole(guildID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	f.hasRole[userID] = false
	return nil
}

func (f *fakePlatform) Unban(guildID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbanCalls++
	if !f.banned[userID] {
		return false, nil
	}
	f.banned[userID] = false
	return true, nil
}

func (f *fakePlatform) NotifyReleased(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
}

func (f *fakePlatform) NotifyUnbanned(userID string, logNumber int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbanNotes++
}

func (f *fakePlatform) LogRelease(guildID, userID string) {}
func (f *fakePlatform) LogUnban(guildID, userID string, logNumber int) {}

func (f *fakePlatform) counts() (removes, unbans, released, unbanNotes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removeCalls, f.unbanCalls, f.released, f.unbanNotes
}

func newTestScheduler(t *testing.T) (*Scheduler, *storage.Store, *fakePlatform) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	platform := newFakePlatform()
	return New(store, platform), store, platform
}

func addActiveLog(t *testing.T, store *storage.Store, userID string, release int64) int64 {
	t.Helper()
	_, err := store.CreateLog(model.PunishmentLog{
		GuildID:       "g",
		UserID:        userID,
		RuleViolation: "§4 - No spam",
		Punishment:    "Canada (2h)",
		ReleaseTime:   &release,
		ModeratorID:   "mod",
	})
	require.NoError(t, err)
	return release
}

func TestArmKeepsOneTimerPerSubject(t *testing.T) {
	sch, _, _ := newTestScheduler(t)
	defer sch.Stop()

	future := time.Now().Add(time.Hour).Unix()
	sch.ArmRelease("g", "u1", future)
	sch.ArmRelease("g", "u1", future+600)
	sch.ArmRelease("g", "u1", future+1200)
	sch.ArmUnban("g", "u1", future, 1)

	releases, unbans := sch.ArmedCounts()
	assert.Equal(t, 1, releases, "rearming replaces, never stacks")
	assert.Equal(t, 1, unbans, "role and ban timers are independent")

	sch.CancelRelease("u1")
	sch.CancelUnban("u1")
	releases, unbans = sch.ArmedCounts()
	assert.Zero(t, releases)
	assert.Zero(t, unbans)

	// Cancelling with nothing armed is a no-op.
	sch.CancelRelease("u1")
}

func TestPastReleaseFiresImmediatelyAndCompletes(t *testing.T) {
	sch, store, platform := newTestScheduler(t)
	defer sch.Stop()

	release := addActiveLog(t, store, "u1", time.Now().Add(-time.Minute).Unix())
	platform.present["u1"] = true
	platform.hasRole["u1"] = true

	sch.ArmRelease("g", "u1", release)

	require.Eventually(t, func() bool {
		return len(store.ActivePunishments("g")) == 0
	}, 2*time.Second, 10*time.Millisecond)

	removes, _, released, _ := platform.counts()
	assert.Equal(t, 1, removes)
	assert.Equal(t, 1, released)

	releases, _ := sch.ArmedCounts()
	assert.Zero(t, releases, "fired timer drops its own handle")
}

func TestSweepCompletesOverdueOnce(t *testing.T) {
	sch, store, platform := newTestScheduler(t)

	addActiveLog(t, store, "u1", time.Now().Add(-time.Minute).Unix())
	platform.present["u1"] = true
	platform.hasRole["u1"] = true

	punishments, tempBans := sch.Sweep("g")
	assert.Equal(t, 1, punishments)
	assert.Zero(t, tempBans)

	// Completion is idempotent: a second sweep finds nothing overdue.
	punishments, _ = sch.Sweep("g")
	assert.Zero(t, punishments)

	removes, _, _, _ := platform.counts()
	assert.Equal(t, 1, removes)
}

func TestSweepClosesRecordWhenSubjectLeft(t *testing.T) {
	sch, store, platform := newTestScheduler(t)

	addActiveLog(t, store, "gone", time.Now().Add(-time.Minute).Unix())
	// Subject is not present in the guild at all.

	punishments, _ := sch.Sweep("g")
	assert.Equal(t, 1, punishments)
	assert.Empty(t, store.ActivePunishments("g"), "record closes without a reversal")

	removes, _, released, _ := platform.counts()
	assert.Zero(t, removes)
	assert.Zero(t, released)
}

func TestSweepLeavesRecordOnResolveError(t *testing.T) {
	sch, store, platform := newTestScheduler(t)

	addActiveLog(t, store, "u1", time.Now().Add(-time.Minute).Unix())
	platform.resolveErr = errors.New("rate limited")

	sch.Sweep("g")
	assert.Len(t, store.ActivePunishments("g"), 1, "transient failure leaves the record for the next sweep")

	platform.mu.Lock()
	platform.resolveErr = nil
	platform.present["u1"] = true
	platform.hasRole["u1"] = true
	platform.mu.Unlock()

	sch.Sweep("g")
	assert.Empty(t, store.ActivePunishments("g"))
}

func TestReconcileRearmsFutureAndFiresOverdue(t *testing.T) {
	sch, store, platform := newTestScheduler(t)
	defer sch.Stop()

	addActiveLog(t, store, "future", time.Now().Add(time.Hour).Unix())
	addActiveLog(t, store, "overdue", time.Now().Add(-time.Minute).Unix())
	for _, u := range []string{"future", "overdue"} {
		platform.present[u] = true
		platform.hasRole[u] = true
	}

	sch.Reconcile("g")

	releases, _ := sch.ArmedCounts()
	assert.Equal(t, 1, releases, "only the future record stays armed")

	active := store.ActivePunishments("g")
	require.Len(t, active, 1)
	assert.Equal(t, "future", active[0].UserID)

	removes, _, _, _ := platform.counts()
	assert.Equal(t, 1, removes)
}

func TestReconcileClosesWhenRoleAlreadyGone(t *testing.T) {
	sch, store, platform := newTestScheduler(t)
	defer sch.Stop()

	addActiveLog(t, store, "u1", time.Now().Add(time.Hour).Unix())
	platform.present["u1"] = true
	platform.hasRole["u1"] = false // removed by hand while the bot was down

	sch.Reconcile("g")

	assert.Empty(t, store.ActivePunishments("g"))
	releases, _ := sch.ArmedCounts()
	assert.Zero(t, releases)
	removes, _, _, _ := platform.counts()
	assert.Zero(t, removes, "no reversal when nothing is held")
}

func TestManualReleaseLeavesNothingForSweep(t *testing.T) {
	sch, store, platform := newTestScheduler(t)
	defer sch.Stop()

	release := addActiveLog(t, store, "u1", time.Now().Add(time.Hour).Unix())
	platform.present["u1"] = true
	platform.hasRole["u1"] = true
	sch.ArmRelease("g", "u1", release)

	// Manual release path: cancel the timer, complete the record.
	sch.CancelRelease("u1")
	require.NoError(t, store.CompletePunishment("g", "u1", release))

	punishments, _ := sch.Sweep("g")
	assert.Zero(t, punishments)
	releases, _ := sch.ArmedCounts()
	assert.Zero(t, releases)
}

func TestUnbanFlow(t *testing.T) {
	sch, store, platform := newTestScheduler(t)

	ut := time.Now().Add(-time.Minute).Unix()
	require.NoError(t, store.CreateTempBan(model.TempBan{
		GuildID: "g", UserID: "u1", LogNumber: 7, Duration: "1h", UnbanTime: &ut,
	}))
	platform.banned["u1"] = true

	_, tempBans := sch.Sweep("g")
	assert.Equal(t, 1, tempBans)
	assert.Empty(t, store.ActiveTempBans("g"))

	_, unbans, _, notes := platform.counts()
	assert.Equal(t, 1, unbans)
	assert.Equal(t, 1, notes)

	// Nothing left for a second pass.
	_, tempBans = sch.Sweep("g")
	assert.Zero(t, tempBans)
}

func TestUnbanAlreadyLiftedStillCloses(t *testing.T) {
	sch, store, platform := newTestScheduler(t)

	ut := time.Now().Add(-time.Minute).Unix()
	require.NoError(t, store.CreateTempBan(model.TempBan{
		GuildID: "g", UserID: "u1", LogNumber: 3, Duration: "1h", UnbanTime: &ut,
	}))
	// The ban was lifted by hand: the platform reports not banned.

	_, tempBans := sch.Sweep("g")
	assert.Equal(t, 1, tempBans)
	assert.Empty(t, store.ActiveTempBans("g"), "record closes even with nothing to reverse")

	_, _, _, notes := platform.counts()
	assert.Zero(t, notes, "no DM for a ban that was already gone")
}
