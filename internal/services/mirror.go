package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tsukuroi/kintsugi-backend/internal/database"
	"github.com/tsukuroi/kintsugi-backend/internal/vessel"
)

// The mirror is a one-way, best-effort shadow of the vessel state in
// PostgreSQL. Writes happen in background goroutines; the caller never
// waits and never sees an error. The mirror may diverge from the snapshot
// store; no merge is attempted.

// MirrorProfile upserts the user's profile snapshot row.
func MirrorProfile(userID uuid.UUID, p *vessel.Profile) {
	payload, err := json.Marshal(p)
	if err != nil {
		log.Printf("[mirror] marshal profile for %s: %v", userID, err)
		return
	}

	snapshot := *p
	go func() {
		_, err := database.PostgresDB.Exec(`
			INSERT INTO profile_snapshots
				(user_id, payload, total_visits, current_streak, longest_streak,
				 total_repairs, crack_count, repaired_count, last_visit, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			ON CONFLICT (user_id) DO UPDATE SET
				payload = $2,
				total_visits = $3,
				current_streak = $4,
				longest_streak = $5,
				total_repairs = $6,
				crack_count = $7,
				repaired_count = $8,
				last_visit = $9,
				updated_at = NOW()
		`, userID, string(payload),
			snapshot.Stats.TotalVisits, snapshot.Stats.CurrentStreak, snapshot.Stats.LongestStreak,
			snapshot.TotalRepairs, len(snapshot.Cracks), snapshot.RepairedCount(), snapshot.LastVisit)
		if err != nil {
			log.Printf("[mirror] profile snapshot for %s: %v", userID, err)
		}
	}()
}

// MirrorActivity appends an activity event row.
func MirrorActivity(userID uuid.UUID, module string, actionCount, durationSeconds int) {
	go func() {
		_, err := database.PostgresDB.Exec(`
			INSERT INTO activity_events (user_id, module, action_count, duration_seconds, created_at)
			VALUES ($1, $2, $3, $4, NOW())
		`, userID, module, actionCount, durationSeconds)
		if err != nil {
			log.Printf("[mirror] activity event for %s: %v", userID, err)
		}
	}()
}

// MirrorCheckin records the day's visit. Re-running on the same day is a
// no-op thanks to the unique (user_id, visit_date) constraint.
func MirrorCheckin(userID uuid.UUID, visitDate time.Time, streak int) {
	go func() {
		_, err := database.PostgresDB.Exec(`
			INSERT INTO checkins (user_id, visit_date, streak, created_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (user_id, visit_date) DO NOTHING
		`, userID, visitDate.UTC().Format("2006-01-02"), streak)
		if err != nil {
			log.Printf("[mirror] checkin for %s: %v", userID, err)
		}
	}()
}
