// Package scheduler owns the deferred reversal of time-bound sanctions. It
// keeps at most one live timer per subject per sanction kind, re-derives its
// state from the store after a restart, and runs a periodic sweep so that a
// lost timer can never strand a sanction.
package scheduler

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"canadian-helper/storage"
)

// Platform is the chat-platform boundary the scheduler fires reversals
// through. Notify and Log methods are best-effort: they report nothing and
// must swallow their own failures.
type Platform interface {
	// HasSanctionRole resolves the subject and reports whether they still
	// carry the punishment role. member is false when the subject has left
	// the guild; err is reserved for transient failures worth retrying.
	HasSanctionRole(guildID, userID string) (member bool, hasRole bool, err error)
	// RemoveSanctionRole lifts the punishment role.
	RemoveSanctionRole(guildID, userID string) error
	// Unban lifts a ban. found is false when the subject is unknown or not
	// banned; that is not an error, there is simply nothing left to reverse.
	Unban(guildID, userID string) (found bool, err error)

	NotifyReleased(userID string)
	NotifyUnbanned(userID string, logNumber int)
	LogRelease(guildID, userID string)
	LogUnban(guildID, userID string, logNumber int)
}

// DefaultSweepInterval is how often the safety-net sweep re-derives the
// overdue set from the store.
const DefaultSweepInterval = time.Minute

// Scheduler arms one reversal timer per sanctioned subject. All timer state is
// owned here; arming always cancels any existing handle for the subject first,
// which is what keeps concurrent extends, reduces and manual releases from
// ever producing a second live timer.
type Scheduler struct {
	store    *storage.Store
	platform Platform

	mu         sync.Mutex
	roleTimers map[string]*time.Timer
	banTimers  map[string]*time.Timer

	sweepInterval time.Duration
	done          chan struct{}
	wg            sync.WaitGroup
	now           func() time.Time
}

// New creates a Scheduler over the given store and platform.
func New(store *storage.Store, platform Platform) *Scheduler {
	return &Scheduler{
		store:         store,
		platform:      platform,
		roleTimers:    make(map[string]*time.Timer),
		banTimers:     make(map[string]*time.Timer),
		sweepInterval: DefaultSweepInterval,
		done:          make(chan struct{}),
		now:           time.Now,
	}
}

// ArmRelease schedules removal of the punishment role at releaseTime. A
// release time already in the past fires immediately. Any existing timer for
// the subject is cancelled first.
func (sch *Scheduler) ArmRelease(guildID, userID string, releaseTime int64) {
	sch.arm(sch.roleTimers, userID, releaseTime, func() {
		sch.fireRelease(guildID, userID, releaseTime)
	})
}

// ArmUnban schedules lifting of a temp ban at unbanTime.
func (sch *Scheduler) ArmUnban(guildID, userID string, unbanTime int64, logNumber int) {
	sch.arm(sch.banTimers, userID, unbanTime, func() {
		sch.fireUnban(guildID, userID, unbanTime, logNumber)
	})
}

func (sch *Scheduler) arm(timers map[string]*time.Timer, userID string, at int64, fire func()) {
	sch.mu.Lock()
	defer sch.mu.Unlock()

	if t, ok := timers[userID]; ok {
		t.Stop()
		delete(timers, userID)
	}

	delay := time.Duration(at-sch.now().Unix()) * time.Second
	if delay < 0 {
		delay = 0
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		// Drop the handle before doing anything irreversible; a cancel
		// arriving from here on is a no-op and the store's idempotent
		// completion covers any race with the sweep.
		sch.mu.Lock()
		if timers[userID] == timer {
			delete(timers, userID)
		}
		sch.mu.Unlock()
		fire()
	})
	timers[userID] = timer
}

// CancelRelease discards the subject's pending role-removal timer. Cancelling
// when no timer exists (already fired, or never armed since the last restart)
// is a harmless no-op.
func (sch *Scheduler) CancelRelease(userID string) {
	sch.cancel(sch.roleTimers, userID)
}

// CancelUnban discards the subject's pending unban timer.
func (sch *Scheduler) CancelUnban(userID string) {
	sch.cancel(sch.banTimers, userID)
}

func (sch *Scheduler) cancel(timers map[string]*time.Timer, userID string) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if t, ok := timers[userID]; ok {
		t.Stop()
		delete(timers, userID)
	}
}

// ArmedCounts reports how many role and ban timers are currently live.
func (sch *Scheduler) ArmedCounts() (releases, unbans int) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	return len(sch.roleTimers), len(sch.banTimers)
}

// fireRelease carries out a role reversal. The role removal is defensive: a
// subject who left the guild or already lost the role is still marked
// completed, since there is nothing left to reverse. Transient platform
// failures leave the record untouched for the sweep to retry.
func (sch *Scheduler) fireRelease(guildID, userID string, releaseTime int64) {
	member, hasRole, err := sch.platform.HasSanctionRole(guildID, userID)
	if err != nil {
		log.Errorf("Release of user %s deferred, could not resolve member: %v", userID, err)
		return
	}

	if member && hasRole {
		if err := sch.platform.RemoveSanctionRole(guildID, userID); err != nil {
			log.Errorf("Failed to remove punishment role from user %s: %v", userID, err)
			return
		}
		log.Infof("Removed expired punishment role from user %s", userID)
		sch.platform.NotifyReleased(userID)
		sch.platform.LogRelease(guildID, userID)
	} else if !member {
		log.Infof("User %s left the guild, closing punishment without reversal", userID)
	}

	if err := sch.store.CompletePunishment(guildID, userID, releaseTime); err != nil {
		log.Errorf("Failed to mark punishment completed for user %s: %v", userID, err)
	}
}

// fireUnban carries out a ban reversal.
func (sch *Scheduler) fireUnban(guildID, userID string, unbanTime int64, logNumber int) {
	found, err := sch.platform.Unban(guildID, userID)
	if err != nil {
		log.Errorf("Failed to unban user %s (log #%d): %v", userID, logNumber, err)
		return
	}
	if found {
		log.Infof("Lifted expired temp ban for user %s (log #%d)", userID, logNumber)
		sch.platform.NotifyUnbanned(userID, logNumber)
		sch.platform.LogUnban(guildID, userID, logNumber)
	} else {
		log.Infof("User %s already unbanned (log #%d), closing record", userID, logNumber)
	}

	if err := sch.store.CompleteTempBan(guildID, userID, unbanTime); err != nil {
		log.Errorf("Failed to mark temp ban completed for user %s: %v", userID, err)
	}
}
