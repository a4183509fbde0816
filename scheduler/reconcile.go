package scheduler

import (
	log "github.com/sirupsen/logrus"
)

// Reconcile rebuilds the timer table from the store after a restart. Timers do
// not survive the process, so the store is the only truth to recover from:
// every active record is either rearmed (release still ahead), fired now
// (overdue), or closed directly when the subject no longer carries the
// sanction. A failure on one record never stops the rest.
func (sch *Scheduler) Reconcile(guildID string) {
	now := sch.now().Unix()

	active := sch.store.ActivePunishments(guildID)
	for _, rec := range active {
		release := *rec.ReleaseTime

		member, hasRole, err := sch.platform.HasSanctionRole(rec.GuildID, rec.UserID)
		if err != nil {
			log.Errorf("Reconcile: could not resolve user %s, leaving for sweep: %v", rec.UserID, err)
			continue
		}
		switch {
		case !member || !hasRole:
			// Nothing held to reverse (role removed out of band, or the
			// subject left); close the record without firing.
			if err := sch.store.CompletePunishment(rec.GuildID, rec.UserID, release); err != nil {
				log.Errorf("Reconcile: failed to complete punishment for user %s: %v", rec.UserID, err)
			} else {
				log.Infof("Reconcile: user %s no longer sanctioned, closed log #%d", rec.UserID, rec.LogNumber)
			}
		case release <= now:
			sch.fireRelease(rec.GuildID, rec.UserID, release)
		default:
			sch.ArmRelease(rec.GuildID, rec.UserID, release)
		}
	}

	bans := sch.store.ActiveTempBans(guildID)
	rearmed := 0
	for _, ban := range bans {
		if ban.UnbanTime == nil {
			continue // indefinite, nothing to schedule
		}
		if *ban.UnbanTime <= now {
			sch.fireUnban(ban.GuildID, ban.UserID, *ban.UnbanTime, ban.LogNumber)
		} else {
			sch.ArmUnban(ban.GuildID, ban.UserID, *ban.UnbanTime, ban.LogNumber)
			rearmed++
		}
	}

	releases, unbans := sch.ArmedCounts()
	log.Infof("Reconciled %d active punishments and %d temp bans (%d release timers, %d unban timers armed)",
		len(active), len(bans), releases, unbans)
}
