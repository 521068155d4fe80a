package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tsukuroi/kintsugi-backend/internal/models"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
	"github.com/tsukuroi/kintsugi-backend/internal/vessel"
)

// The study module: gratitude reflection. One session collects up to three
// short reflections.

type SaveReflectionRequest struct {
	Reflections []string `json:"reflections"`
	Locale      string   `json:"locale,omitempty"`
}

type SaveReflectionResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Reflection *models.Reflection `json:"reflection,omitempty"`
	Profile    *vessel.Profile    `json:"profile,omitempty"`
}

type ListReflectionsResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message,omitempty"`
	Reflections []models.Reflection `json:"reflections"`
	Total       int64               `json:"total"`
}

// SaveReflection completes one gratitude session: the reflections land in
// MongoDB and the session counts as a study activity.
func SaveReflection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(SaveReflectionResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req SaveReflectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SaveReflectionResponse{Success: false, Message: "Invalid request body"})
		return
	}

	var reflections []string
	for _, s := range req.Reflections {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(s) > 500 {
			s = s[:500]
		}
		reflections = append(reflections, s)
		if len(reflections) == 3 {
			break
		}
	}
	if len(reflections) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SaveReflectionResponse{Success: false, Message: "At least one reflection is required"})
		return
	}

	now := profileClock()
	key := vessel.Key(userID.String())
	p := vesselModel.Load(r.Context(), key)
	activity := p.RecordActivity(vessel.ActivityStudy, 0, map[string]interface{}{
		"reflection_count": len(reflections),
	}, now)
	vesselModel.Save(r.Context(), key, p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	saved, err := services.SaveReflection(ctx, models.Reflection{
		UserID:      userID.String(),
		ActivityID:  activity.ID,
		Reflections: reflections,
		Locale:      strings.TrimSpace(req.Locale),
		CreatedAt:   now,
	})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SaveReflectionResponse{Success: false, Message: "Failed to save reflection"})
		return
	}

	services.MirrorActivity(userID, string(vessel.ActivityStudy), 1, 0)
	services.MirrorProfile(userID, p)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SaveReflectionResponse{Success: true, Reflection: &saved, Profile: p})
}

// ListReflections returns the user's reflections, newest first.
func ListReflections(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ListReflectionsResponse{
			Success:     false,
			Message:     "Authentication required",
			Reflections: []models.Reflection{},
		})
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	skip := 0
	if skipStr := r.URL.Query().Get("skip"); skipStr != "" {
		if parsedSkip, err := strconv.Atoi(skipStr); err == nil && parsedSkip >= 0 {
			skip = parsedSkip
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reflections, total, err := services.ListReflections(ctx, userID.String(), limit, skip)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ListReflectionsResponse{
			Success:     false,
			Message:     "Failed to load reflections",
			Reflections: []models.Reflection{},
		})
		return
	}
	if reflections == nil {
		reflections = []models.Reflection{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListReflectionsResponse{
		Success:     true,
		Reflections: reflections,
		Total:       total,
	})
}
