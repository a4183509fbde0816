package scheduler

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Start launches the periodic sweep. The sweep is the durability backstop: a
// dedicated timer can be lost without the store knowing, so the overdue set is
// re-derived from the store on every tick and pushed through the same fire
// path. Idempotent completion in the store makes racing with a live timer
// safe.
func (sch *Scheduler) Start(guildID string) {
	sch.wg.Add(1)
	ticker := time.NewTicker(sch.sweepInterval)
	go func() {
		defer sch.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sch.Sweep(guildID)
			case <-sch.done:
				return
			}
		}
	}()
}

// Stop cancels all live timers and stops the sweep.
func (sch *Scheduler) Stop() {
	close(sch.done)
	sch.wg.Wait()

	sch.mu.Lock()
	defer sch.mu.Unlock()
	for id, t := range sch.roleTimers {
		t.Stop()
		delete(sch.roleTimers, id)
	}
	for id, t := range sch.banTimers {
		t.Stop()
		delete(sch.banTimers, id)
	}
	log.Info("Scheduler stopped")
}

// Sweep processes every overdue punishment and temp ban once and returns how
// many of each it handled. Also callable directly from the cleanup command.
func (sch *Scheduler) Sweep(guildID string) (punishments, tempBans int) {
	overdue := sch.store.OverduePunishments(guildID)
	for _, rec := range overdue {
		release := *rec.ReleaseTime
		sch.fireRelease(rec.GuildID, rec.UserID, release)
		// The dedicated timer, if one is still pending for this subject,
		// is now redundant.
		sch.CancelRelease(rec.UserID)
	}
	if len(overdue) > 0 {
		log.Infof("Sweep processed %d overdue punishments", len(overdue))
	}

	overdueBans := sch.store.OverdueTempBans(guildID)
	for _, ban := range overdueBans {
		sch.fireUnban(ban.GuildID, ban.UserID, *ban.UnbanTime, ban.LogNumber)
		sch.CancelUnban(ban.UserID)
	}
	if len(overdueBans) > 0 {
		log.Infof("Sweep processed %d overdue temp bans", len(overdueBans))
	}

	return len(overdue), len(overdueBans)
}
