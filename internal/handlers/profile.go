package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tsukuroi/kintsugi-backend/internal/database"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
	"github.com/tsukuroi/kintsugi-backend/internal/vessel"
)

// vesselModel is the shared profile state model, backed by Redis.
// Initialized from main after Redis has connected.
var vesselModel *vessel.Model

// InitVesselModel wires the profile model to the Redis snapshot store.
func InitVesselModel() {
	vesselModel = vessel.NewModel(vessel.NewRedisStore(database.RedisClient))
}

type ProfileResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Profile *vessel.Profile `json:"profile,omitempty"`
}

type VesselResponse struct {
	Success bool          `json:"success"`
	Vessel  vessel.Visual `json:"vessel"`
}

// GetProfile returns the user's vessel profile. A missing or unparsable
// snapshot yields a fresh profile rather than an error.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Authentication required"})
		return
	}

	p := vesselModel.Load(r.Context(), vessel.Key(userID.String()))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{Success: true, Profile: p})
}

// RecordVisit runs the daily check-in: streak bookkeeping, absence cracks
// for missed days, and the Postgres mirror. Idempotent within one calendar
// day.
func RecordVisit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Authentication required"})
		return
	}

	key := vessel.Key(userID.String())
	p := vesselModel.Load(r.Context(), key)
	now := vesselModel.Now()
	p.RecordVisit(now)
	vesselModel.Save(r.Context(), key, p)

	services.MirrorProfile(userID, p)
	services.MirrorCheckin(userID, now, p.Stats.CurrentStreak)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{Success: true, Profile: p})
}

// SyncProfile overwrites the server-side snapshot with a full client
// profile. One-way, last writer wins; no merge is attempted.
func SyncProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Authentication required"})
		return
	}

	var p vessel.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ID == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Invalid profile payload"})
		return
	}
	if p.Cracks == nil {
		p.Cracks = []vessel.Crack{}
	}
	if p.Activities == nil {
		p.Activities = []vessel.Activity{}
	}

	vesselModel.Save(r.Context(), vessel.Key(userID.String()), &p)
	services.MirrorProfile(userID, &p)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{Success: true, Profile: &p})
}

// GetVessel returns the derived visual metrics for the profile view.
// Recomputed from current state on every call.
func GetVessel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProfileResponse{Success: false, Message: "Authentication required"})
		return
	}

	p := vesselModel.Load(r.Context(), vessel.Key(userID.String()))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VesselResponse{Success: true, Vessel: p.CalculateVisual()})
}

// profileClock returns the model's current time; split out so module
// handlers share the same clock as the state model.
func profileClock() time.Time {
	return vesselModel.Now()
}
