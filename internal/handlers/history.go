package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tsukuroi/kintsugi-backend/internal/database"
)

// HistoryEvent is one mirrored activity row.
type HistoryEvent struct {
	ID              string    `json:"id"`
	Module          string    `json:"module"`
	ActionCount     int       `json:"action_count"`
	DurationSeconds int       `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Events  []HistoryEvent `json:"events"`
	Total   int            `json:"total"`
	// Per-module session counts over the selected range
	ModuleCounts map[string]int `json:"module_counts"`
	// Distinct check-in days over the selected range
	CheckinDays int `json:"checkin_days"`
}

// GetHistory returns the user's mirrored activity events plus aggregate
// counts. Range defaults to the last 30 days.
func GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(HistoryResponse{
			Success: false,
			Message: "Authentication required",
			Events:  []HistoryEvent{},
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")

	now := time.Now().UTC()
	to := now
	from := now.AddDate(0, 0, -30)
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if t, err := time.Parse("2006-01-02", fromStr); err == nil {
			from = t.UTC()
		}
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if t, err := time.Parse("2006-01-02", toStr); err == nil {
			to = t.UTC()
		}
	}
	if from.After(to) {
		from, to = to, from
	}
	toEnd := to.AddDate(0, 0, 1) // exclusive upper bound (end of "to" day)

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 200 {
			limit = parsedLimit
		}
	}

	events := make([]HistoryEvent, 0)
	rows, err := database.PostgresDB.Query(`
		SELECT id, module, action_count, duration_seconds, created_at
		FROM activity_events
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4
	`, userID, from, toEnd, limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(HistoryResponse{Success: false, Message: "Failed to fetch history", Events: []HistoryEvent{}})
		return
	}
	for rows.Next() {
		var e HistoryEvent
		if err := rows.Scan(&e.ID, &e.Module, &e.ActionCount, &e.DurationSeconds, &e.CreatedAt); err != nil {
			rows.Close()
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(HistoryResponse{Success: false, Message: "Failed to scan", Events: []HistoryEvent{}})
			return
		}
		events = append(events, e)
	}
	rows.Close()

	moduleCounts := make(map[string]int)
	rows, err = database.PostgresDB.Query(`
		SELECT module, COUNT(*)
		FROM activity_events
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY module
	`, userID, from, toEnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(HistoryResponse{Success: false, Message: "Failed to fetch module counts", Events: []HistoryEvent{}})
		return
	}
	for rows.Next() {
		var module string
		var c int
		if err := rows.Scan(&module, &c); err != nil {
			rows.Close()
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(HistoryResponse{Success: false, Message: "Failed to scan", Events: []HistoryEvent{}})
			return
		}
		moduleCounts[module] = c
	}
	rows.Close()

	var total int
	_ = database.PostgresDB.QueryRow(`
		SELECT COUNT(*) FROM activity_events
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
	`, userID, from, toEnd).Scan(&total)

	var checkinDays int
	_ = database.PostgresDB.QueryRow(`
		SELECT COUNT(*) FROM checkins
		WHERE user_id = $1 AND visit_date >= $2::date AND visit_date < $3::date
	`, userID, from.Format("2006-01-02"), toEnd.Format("2006-01-02")).Scan(&checkinDays)

	json.NewEncoder(w).Encode(HistoryResponse{
		Success:      true,
		Events:       events,
		Total:        total,
		ModuleCounts: moduleCounts,
		CheckinDays:  checkinDays,
	})
}
