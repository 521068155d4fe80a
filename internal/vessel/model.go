package vessel

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// KeyPrefix is the storage key prefix for profile snapshots.
const KeyPrefix = "vessel:"

// Key returns the storage key for a user's profile snapshot.
func Key(userID string) string {
	return KeyPrefix + userID
}

// Model loads and saves profiles through a Store. All other profile
// operations are pure and live on Profile itself.
type Model struct {
	Store Store
	// Now is the clock; defaults to time.Now. Injected in tests.
	Now func() time.Time
}

func NewModel(store Store) *Model {
	return &Model{Store: store, Now: time.Now}
}

// Load reads the persisted profile under key. A missing key, a read error,
// or an unparsable snapshot all yield a freshly initialized profile; Load
// never fails outward.
func (m *Model) Load(ctx context.Context, key string) *Profile {
	raw, ok, err := m.Store.Get(ctx, key)
	if err != nil {
		log.Printf("[vessel] read failed for %s, starting fresh: %v", key, err)
		return NewProfile(m.Now())
	}
	if !ok {
		return NewProfile(m.Now())
	}

	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == "" {
		log.Printf("[vessel] unparsable snapshot for %s, starting fresh", key)
		return NewProfile(m.Now())
	}
	if p.Cracks == nil {
		p.Cracks = []Crack{}
	}
	if p.Activities == nil {
		p.Activities = []Activity{}
	}
	return &p
}

// Save overwrites the snapshot under key with the full profile. Failures are
// logged and swallowed: the in-memory profile stays usable for the session.
func (m *Model) Save(ctx context.Context, key string, p *Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		log.Printf("[vessel] marshal failed for %s: %v", key, err)
		return
	}
	if err := m.Store.Set(ctx, key, string(raw)); err != nil {
		log.Printf("[vessel] write failed for %s: %v", key, err)
	}
}
