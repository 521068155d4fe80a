package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tsukuroi/kintsugi-backend/internal/models"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
	"github.com/tsukuroi/kintsugi-backend/internal/vessel"
)

// The garden module: name an anxiety, then turn it into a small concrete
// action. Logging an anxiety opens a crack; completing actions repairs the
// earliest open crack.

type LogAnxietyRequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale,omitempty"`
}

type GardenActionRequest struct {
	ActionCount int    `json:"action_count"`
	Note        string `json:"note,omitempty"`
}

type GardenResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Profile *vessel.Profile `json:"profile,omitempty"`
}

// LogAnxiety records an anxiety entry as a new unrepaired crack and stores
// the free text as a garden note.
func LogAnxiety(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(GardenResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req LogAnxietyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(GardenResponse{Success: false, Message: "Invalid request body"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(GardenResponse{Success: false, Message: "Text is required"})
		return
	}
	if len(text) > 2000 {
		text = text[:2000]
	}

	key := vessel.Key(userID.String())
	p := vesselModel.Load(r.Context(), key)
	now := profileClock()
	crack := p.RecordAnxiety(text, now)
	vesselModel.Save(r.Context(), key, p)

	services.SaveAnxietyNoteAsync(models.AnxietyNote{
		UserID:    userID.String(),
		CrackID:   crack.ID,
		Text:      text,
		Locale:    strings.TrimSpace(req.Locale),
		CreatedAt: now,
	})
	services.MirrorProfile(userID, p)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(GardenResponse{Success: true, Profile: p})
}

// CompleteGardenAction records completed anxiety-actions. Each call is one
// activity; action_count feeds the garden counter explicitly.
func CompleteGardenAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(GardenResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req GardenActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(GardenResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if req.ActionCount < 1 {
		req.ActionCount = 1
	}

	details := map[string]interface{}{"action_count": req.ActionCount}
	if note := strings.TrimSpace(req.Note); note != "" {
		details["note"] = note
	}

	key := vessel.Key(userID.String())
	p := vesselModel.Load(r.Context(), key)
	p.RecordActivity(vessel.ActivityGarden, req.ActionCount, details, profileClock())
	vesselModel.Save(r.Context(), key, p)

	services.MirrorActivity(userID, string(vessel.ActivityGarden), req.ActionCount, 0)
	services.MirrorProfile(userID, p)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(GardenResponse{Success: true, Profile: p})
}
