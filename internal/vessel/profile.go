package vessel

import (
	"time"

	"github.com/google/uuid"
)

// CrackType classifies what caused a crack.
type CrackType string

const (
	// CrackAbsence is a missed-day gap between visits.
	CrackAbsence CrackType = "absence"
	// CrackAnxiety is a logged anxiety entry.
	CrackAnxiety CrackType = "anxiety"
)

// ActivityType is one of the three guided modules.
type ActivityType string

const (
	ActivityGarden ActivityType = "garden" // anxiety-action journaling
	ActivityStudy  ActivityType = "study"  // gratitude reflection
	ActivityTatami ActivityType = "tatami" // breathing / meditation
)

// MaxAbsenceCracksPerGap caps how many absence cracks a single streak break
// can add, regardless of how many days were actually missed.
const MaxAbsenceCracksPerGap = 6

// Crack is an unresolved emotional event. Once Repaired flips to true it
// never reverts.
type Crack struct {
	ID           string     `json:"id"`
	Type         CrackType  `json:"type"`
	Date         time.Time  `json:"date"`
	Text         string     `json:"text,omitempty"`
	Repaired     bool       `json:"repaired"`
	RepairedDate *time.Time `json:"repaired_date,omitempty"`
}

// Activity records one completed module session.
type Activity struct {
	ID      string                 `json:"id"`
	Type    ActivityType           `json:"type"`
	Date    time.Time              `json:"date"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Stats holds aggregate counters derived from the visit/activity history.
type Stats struct {
	TotalVisits      int `json:"total_visits"`
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	GardenActions    int `json:"garden_actions"`
	StudyReflections int `json:"study_reflections"`
	TatamiSessions   int `json:"tatami_sessions"`
}

// Profile is the full per-user vessel state. Cracks and Activities are kept
// in insertion order, which is also chronological order.
type Profile struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	LastVisit    time.Time  `json:"last_visit"`
	Cracks       []Crack    `json:"cracks"`
	TotalRepairs int        `json:"total_repairs"`
	Activities   []Activity `json:"activities"`
	Stats        Stats      `json:"stats"`
}

// Visual is the presentational state of the vessel, recomputed from the
// profile on every call. No caching.
type Visual struct {
	Depth         int `json:"depth"`
	GoldIntensity int `json:"gold_intensity"`
	RepairedCount int `json:"repaired_count"`
}

// NewProfile returns a freshly initialized profile for a first visit.
func NewProfile(now time.Time) *Profile {
	return &Profile{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		LastVisit:  now,
		Cracks:     []Crack{},
		Activities: []Activity{},
		Stats: Stats{
			TotalVisits:   1,
			CurrentStreak: 1,
			LongestStreak: 1,
		},
	}
}

// dateOnly truncates a timestamp to its UTC calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayGap returns the number of calendar days between two timestamps.
func dayGap(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

// RecordVisit updates streak bookkeeping for a visit at time now.
// Calling it again on the same calendar day is a no-op.
func (p *Profile) RecordVisit(now time.Time) {
	gap := dayGap(p.LastVisit, now)
	if gap == 0 {
		return
	}

	if gap == 1 {
		p.Stats.CurrentStreak++
	} else {
		// Streak broken: one absence crack per missed day, capped.
		p.Stats.CurrentStreak = 1
		missed := gap - 1
		if missed > MaxAbsenceCracksPerGap {
			missed = MaxAbsenceCracksPerGap
		}
		for i := 1; i <= missed; i++ {
			p.Cracks = append(p.Cracks, Crack{
				ID:   uuid.New().String(),
				Type: CrackAbsence,
				Date: dateOnly(p.LastVisit).AddDate(0, 0, i),
			})
		}
	}

	p.Stats.TotalVisits++
	if p.Stats.CurrentStreak > p.Stats.LongestStreak {
		p.Stats.LongestStreak = p.Stats.CurrentStreak
	}
	p.LastVisit = now
}

// RecordAnxiety appends a new unrepaired anxiety crack carrying the user's
// free-text entry.
func (p *Profile) RecordAnxiety(text string, now time.Time) *Crack {
	p.Cracks = append(p.Cracks, Crack{
		ID:   uuid.New().String(),
		Type: CrackAnxiety,
		Date: now,
		Text: text,
	})
	return &p.Cracks[len(p.Cracks)-1]
}

// RecordActivity appends a completed module session and repairs the earliest
// unrepaired crack, if any. actionCount only affects the garden counter;
// study and tatami always count one session.
func (p *Profile) RecordActivity(typ ActivityType, actionCount int, details map[string]interface{}, now time.Time) *Activity {
	p.Activities = append(p.Activities, Activity{
		ID:      uuid.New().String(),
		Type:    typ,
		Date:    now,
		Details: details,
	})

	// Repair the earliest unrepaired crack (explicit scan in insertion order).
	for i := range p.Cracks {
		if !p.Cracks[i].Repaired {
			repairedAt := now
			p.Cracks[i].Repaired = true
			p.Cracks[i].RepairedDate = &repairedAt
			p.TotalRepairs++
			break
		}
	}

	switch typ {
	case ActivityGarden:
		if actionCount < 1 {
			actionCount = 1
		}
		p.Stats.GardenActions += actionCount
	case ActivityStudy:
		p.Stats.StudyReflections++
	case ActivityTatami:
		p.Stats.TatamiSessions++
	}

	return &p.Activities[len(p.Activities)-1]
}

// RepairedCount returns how many cracks have been repaired.
func (p *Profile) RepairedCount() int {
	n := 0
	for i := range p.Cracks {
		if p.Cracks[i].Repaired {
			n++
		}
	}
	return n
}

// CalculateVisual derives the vessel's presentational metrics. The weights
// are tuned presentation values carried over from the frontend; their only
// contract is matching prior observed behavior.
func (p *Profile) CalculateVisual() Visual {
	depth := len(p.Activities)*5 + len(p.Cracks)*3 + p.Stats.TotalVisits
	if depth > 100 {
		depth = 100
	}

	repaired := p.RepairedCount()
	repairRatio := 0.0
	if len(p.Cracks) > 0 {
		repairRatio = float64(repaired) / float64(len(p.Cracks))
	}
	gold := int(repairRatio*50) + p.TotalRepairs*5
	if gold > 100 {
		gold = 100
	}

	return Visual{
		Depth:         depth,
		GoldIntensity: gold,
		RepairedCount: repaired,
	}
}
