package vessel

import (
	"context"
	"errors"
	"testing"
	"time"
)

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 9, 30, 0, 0, time.UTC)
}

func TestRecordVisit_SameDayIsIdempotent(t *testing.T) {
	p := NewProfile(day(2026, time.March, 1))

	p.RecordVisit(day(2026, time.March, 2))
	visits := p.Stats.TotalVisits
	streak := p.Stats.CurrentStreak
	cracks := len(p.Cracks)

	// Second call later the same day must change nothing.
	p.RecordVisit(time.Date(2026, time.March, 2, 23, 59, 0, 0, time.UTC))

	if p.Stats.TotalVisits != visits {
		t.Errorf("TotalVisits changed on same-day visit: got %d, want %d", p.Stats.TotalVisits, visits)
	}
	if p.Stats.CurrentStreak != streak {
		t.Errorf("CurrentStreak changed on same-day visit: got %d, want %d", p.Stats.CurrentStreak, streak)
	}
	if len(p.Cracks) != cracks {
		t.Errorf("Cracks changed on same-day visit: got %d, want %d", len(p.Cracks), cracks)
	}
}

func TestRecordVisit_NextDayExtendsStreak(t *testing.T) {
	p := NewProfile(day(2026, time.March, 1))
	prevStreak := p.Stats.CurrentStreak

	p.RecordVisit(day(2026, time.March, 2))

	if p.Stats.CurrentStreak != prevStreak+1 {
		t.Errorf("CurrentStreak = %d, want %d", p.Stats.CurrentStreak, prevStreak+1)
	}
	if len(p.Cracks) != 0 {
		t.Errorf("expected no cracks for a continuous streak, got %d", len(p.Cracks))
	}
	if p.Stats.TotalVisits != 2 {
		t.Errorf("TotalVisits = %d, want 2", p.Stats.TotalVisits)
	}
}

func TestRecordVisit_GapBreaksStreakAndCapsCracks(t *testing.T) {
	p := NewProfile(day(2026, time.March, 1))
	p.RecordVisit(day(2026, time.March, 2))
	p.RecordVisit(day(2026, time.March, 3))
	if p.Stats.CurrentStreak != 3 {
		t.Fatalf("setup streak = %d, want 3", p.Stats.CurrentStreak)
	}

	// Ten days later: 9 days missed, but absence cracks cap at 6.
	p.RecordVisit(day(2026, time.March, 13))

	if p.Stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 after break", p.Stats.CurrentStreak)
	}
	if len(p.Cracks) != MaxAbsenceCracksPerGap {
		t.Errorf("cracks = %d, want %d (capped)", len(p.Cracks), MaxAbsenceCracksPerGap)
	}
	for i, c := range p.Cracks {
		if c.Type != CrackAbsence {
			t.Errorf("crack %d type = %q, want %q", i, c.Type, CrackAbsence)
		}
		if c.Repaired {
			t.Errorf("crack %d should start unrepaired", i)
		}
	}
	if p.Stats.LongestStreak != 3 {
		t.Errorf("LongestStreak = %d, want 3", p.Stats.LongestStreak)
	}
}

func TestRecordVisit_SingleMissedDay(t *testing.T) {
	p := NewProfile(day(2026, time.March, 1))

	// Visit on March 3: March 2 was missed.
	p.RecordVisit(day(2026, time.March, 3))

	if p.Stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", p.Stats.CurrentStreak)
	}
	if len(p.Cracks) != 1 {
		t.Fatalf("cracks = %d, want 1", len(p.Cracks))
	}
	if got := p.Cracks[0].Date; !got.Equal(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("absence crack dated %v, want the missed day", got)
	}
}

func TestRecordActivity_RepairsEarliestCrackOnly(t *testing.T) {
	now := day(2026, time.April, 5)
	p := NewProfile(now)
	p.RecordAnxiety("deadline pressure", now)
	p.RecordAnxiety("couldn't sleep", now.Add(time.Hour))
	c1 := p.Cracks[0].ID
	c2 := p.Cracks[1].ID

	p.RecordActivity(ActivityStudy, 0, nil, now.Add(2*time.Hour))

	if !p.Cracks[0].Repaired || p.Cracks[0].ID != c1 {
		t.Errorf("earliest crack %s should be repaired", c1)
	}
	if p.Cracks[0].RepairedDate == nil {
		t.Errorf("repaired crack must carry a repaired date")
	}
	if p.Cracks[1].Repaired {
		t.Errorf("later crack %s must remain unrepaired", c2)
	}
	if p.TotalRepairs != 1 {
		t.Errorf("TotalRepairs = %d, want 1", p.TotalRepairs)
	}
}

func TestRecordActivity_NoCracksIsStillRecorded(t *testing.T) {
	now := day(2026, time.April, 5)
	p := NewProfile(now)

	p.RecordActivity(ActivityTatami, 0, map[string]interface{}{"duration_seconds": 300}, now)

	if p.TotalRepairs != 0 {
		t.Errorf("TotalRepairs = %d, want 0", p.TotalRepairs)
	}
	if len(p.Activities) != 1 {
		t.Fatalf("activities = %d, want 1", len(p.Activities))
	}
	if p.Stats.TatamiSessions != 1 {
		t.Errorf("TatamiSessions = %d, want 1", p.Stats.TatamiSessions)
	}
}

func TestRecordActivity_GardenCountsExplicitActions(t *testing.T) {
	now := day(2026, time.April, 5)
	p := NewProfile(now)

	p.RecordActivity(ActivityGarden, 3, nil, now)
	p.RecordActivity(ActivityGarden, 0, nil, now) // below 1 counts as a single action

	if p.Stats.GardenActions != 4 {
		t.Errorf("GardenActions = %d, want 4", p.Stats.GardenActions)
	}
}

func TestCalculateVisual_DepthClamps(t *testing.T) {
	now := day(2026, time.May, 1)
	p := NewProfile(now)
	for i := 0; i < 50; i++ {
		p.Activities = append(p.Activities, Activity{ID: "a", Type: ActivityStudy, Date: now})
		p.Cracks = append(p.Cracks, Crack{ID: "c", Type: CrackAnxiety, Date: now})
	}

	v := p.CalculateVisual()

	if v.Depth != 100 {
		t.Errorf("Depth = %d, want 100 (clamped)", v.Depth)
	}
}

func TestCalculateVisual_NoCracksHasZeroRatio(t *testing.T) {
	now := day(2026, time.May, 1)
	p := NewProfile(now)

	v := p.CalculateVisual()

	if v.GoldIntensity != 0 {
		t.Errorf("GoldIntensity = %d, want 0 with no cracks or repairs", v.GoldIntensity)
	}
	if v.RepairedCount != 0 {
		t.Errorf("RepairedCount = %d, want 0", v.RepairedCount)
	}
	if v.Depth != 1 { // just the first visit
		t.Errorf("Depth = %d, want 1", v.Depth)
	}
}

func TestEndToEnd_AnxietyThenGardenAction(t *testing.T) {
	now := day(2026, time.June, 10)
	p := NewProfile(now)

	p.RecordAnxiety("stressed", now)
	p.RecordActivity(ActivityGarden, 1, map[string]interface{}{"action_count": 1}, now.Add(time.Minute))

	if len(p.Cracks) != 1 {
		t.Fatalf("cracks = %d, want 1", len(p.Cracks))
	}
	if !p.Cracks[0].Repaired {
		t.Errorf("the anxiety crack should be repaired by the garden action")
	}
	if p.TotalRepairs != 1 {
		t.Errorf("TotalRepairs = %d, want 1", p.TotalRepairs)
	}
	if p.Stats.GardenActions != 1 {
		t.Errorf("GardenActions = %d, want 1", p.Stats.GardenActions)
	}
}

func TestModel_LoadRoundTrip(t *testing.T) {
	store := NewMemStore()
	m := NewModel(store)
	m.Now = func() time.Time { return day(2026, time.July, 1) }
	ctx := context.Background()

	p := m.Load(ctx, Key("u1"))
	p.RecordAnxiety("first entry", m.Now())
	m.Save(ctx, Key("u1"), p)

	loaded := m.Load(ctx, Key("u1"))
	if loaded.ID != p.ID {
		t.Errorf("loaded profile ID = %s, want %s", loaded.ID, p.ID)
	}
	if len(loaded.Cracks) != 1 || loaded.Cracks[0].Text != "first entry" {
		t.Errorf("loaded cracks = %+v, want the saved anxiety crack", loaded.Cracks)
	}
}

func TestModel_LoadGarbageStartsFresh(t *testing.T) {
	store := NewMemStore()
	store.Set(context.Background(), Key("u1"), "{not json")
	m := NewModel(store)
	m.Now = func() time.Time { return day(2026, time.July, 1) }

	p := m.Load(context.Background(), Key("u1"))

	if p == nil {
		t.Fatal("Load must never return nil")
	}
	if p.Stats.TotalVisits != 1 || p.Stats.CurrentStreak != 1 {
		t.Errorf("fresh profile stats = %+v, want totalVisits=1 currentStreak=1", p.Stats)
	}
	if len(p.Cracks) != 0 || len(p.Activities) != 0 {
		t.Errorf("fresh profile should have empty cracks and activities")
	}
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("store down")
}

func (failingStore) Set(ctx context.Context, key, value string) error {
	return errors.New("store down")
}

func TestModel_SaveFailureIsSwallowed(t *testing.T) {
	m := NewModel(failingStore{})
	m.Now = func() time.Time { return day(2026, time.July, 1) }

	p := m.Load(context.Background(), Key("u1"))
	p.RecordAnxiety("still usable", m.Now())
	m.Save(context.Background(), Key("u1"), p) // must not panic or surface the error

	if len(p.Cracks) != 1 {
		t.Errorf("in-memory profile must stay usable after a failed save")
	}
}
