package services

import (
	"context"
	"time"

	"github.com/tsukuroi/kintsugi-backend/internal/database"
)

// ActivityQuotaKeyPrefix is the Redis key prefix for the free-plan daily
// activity counters.
const ActivityQuotaKeyPrefix = "activityquota:"

// ActivityQuotaKey returns the counter key for a user on a given UTC day.
func ActivityQuotaKey(userID string, day time.Time) string {
	return ActivityQuotaKeyPrefix + userID + ":" + day.UTC().Format("2006-01-02")
}

// untilEndOfDay returns how long the day counter should live: until UTC
// midnight, so the quota resets with the calendar day.
func untilEndOfDay(now time.Time) time.Duration {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return midnight.Sub(now)
}

// RemainingSlots returns how many recorded activities are left today given
// the free-plan limit and the count already used.
func RemainingSlots(limit, used int) int {
	remaining := limit - used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ConsumeActivitySlot counts one recorded activity against the user's daily
// quota and reports whether it was within the limit. Redis failure fails
// open: the activity is allowed.
func ConsumeActivitySlot(ctx context.Context, userID string, limit int, now time.Time) (bool, int) {
	key := ActivityQuotaKey(userID, now)

	used, err := database.RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return true, 0
	}
	if used == 1 {
		database.RedisClient.Expire(ctx, key, untilEndOfDay(now))
	}

	if int(used) > limit {
		return false, 0
	}
	return true, RemainingSlots(limit, int(used))
}

// UsedActivitySlots returns how many activities the user has recorded today.
func UsedActivitySlots(ctx context.Context, userID string, now time.Time) int {
	used, err := database.RedisClient.Get(ctx, ActivityQuotaKey(userID, now)).Int()
	if err != nil {
		return 0
	}
	return used
}
