package services

import (
	"testing"
	"time"
)

func TestActivityQuotaKey_DayScoped(t *testing.T) {
	d1 := time.Date(2026, time.August, 31, 23, 59, 0, 0, time.UTC)
	d2 := time.Date(2026, time.September, 1, 0, 1, 0, 0, time.UTC)

	k1 := ActivityQuotaKey("u1", d1)
	k2 := ActivityQuotaKey("u1", d2)

	if k1 == k2 {
		t.Errorf("keys for different days must differ: %s", k1)
	}
	if k1 != "activityquota:u1:2026-08-31" {
		t.Errorf("key = %s, want activityquota:u1:2026-08-31", k1)
	}
}

func TestActivityQuotaKey_NormalizesToUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	// 08:00 JST on Sep 1 is still Aug 31 in UTC.
	local := time.Date(2026, time.September, 1, 8, 0, 0, 0, jst)

	if got := ActivityQuotaKey("u1", local); got != "activityquota:u1:2026-08-31" {
		t.Errorf("key = %s, want the UTC day", got)
	}
}

func TestUntilEndOfDay(t *testing.T) {
	now := time.Date(2026, time.August, 31, 22, 0, 0, 0, time.UTC)

	ttl := untilEndOfDay(now)

	if ttl != 2*time.Hour {
		t.Errorf("untilEndOfDay = %v, want 2h", ttl)
	}
}

func TestRemainingSlots(t *testing.T) {
	if got := RemainingSlots(3, 1); got != 2 {
		t.Errorf("RemainingSlots(3,1) = %d, want 2", got)
	}
	if got := RemainingSlots(3, 5); got != 0 {
		t.Errorf("RemainingSlots(3,5) = %d, want 0 (never negative)", got)
	}
}
