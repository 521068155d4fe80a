package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tsukuroi/kintsugi-backend/internal/models"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
	"github.com/tsukuroi/kintsugi-backend/internal/vessel"
)

// The tatami module: guided breathing and meditation.

type BreathSessionRequest struct {
	DurationSeconds int    `json:"duration_seconds"`
	Pattern         string `json:"pattern,omitempty"` // e.g. "calm", "box", "478"
}

type BreathSessionResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Profile *vessel.Profile `json:"profile,omitempty"`
}

// CompleteBreathSession records a finished breathing session.
func CompleteBreathSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(BreathSessionResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req BreathSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(BreathSessionResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if req.DurationSeconds < 0 {
		req.DurationSeconds = 0
	}
	// One hour is far beyond any guided session
	if req.DurationSeconds > 3600 {
		req.DurationSeconds = 3600
	}

	pattern := strings.TrimSpace(req.Pattern)
	now := profileClock()

	key := vessel.Key(userID.String())
	p := vesselModel.Load(r.Context(), key)
	activity := p.RecordActivity(vessel.ActivityTatami, 0, map[string]interface{}{
		"duration_seconds": req.DurationSeconds,
		"pattern":          pattern,
	}, now)
	vesselModel.Save(r.Context(), key, p)

	services.SaveBreathSessionAsync(models.BreathSession{
		UserID:          userID.String(),
		ActivityID:      activity.ID,
		DurationSeconds: req.DurationSeconds,
		Pattern:         pattern,
		CreatedAt:       now,
	})
	services.MirrorActivity(userID, string(vessel.ActivityTatami), 1, req.DurationSeconds)
	services.MirrorProfile(userID, p)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(BreathSessionResponse{Success: true, Profile: p})
}
