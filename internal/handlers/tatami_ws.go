package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
)

// pacerUpgrader is the shared upgrader for breathing pacer connections.
var pacerUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// breathPhase is one step of a breathing cycle.
type breathPhase struct {
	Name    string `json:"phase"` // "inhale", "hold", "exhale"
	Seconds int    `json:"seconds"`
}

// PacerFrame is what the server pushes at every phase change.
type PacerFrame struct {
	Type    string `json:"type"` // "phase"
	Phase   string `json:"phase"`
	Seconds int    `json:"seconds"`
	Cycle   int    `json:"cycle"`
}

// breathPatterns are the supported guided cadences.
var breathPatterns = map[string][]breathPhase{
	"calm": {{"inhale", 4}, {"hold", 2}, {"exhale", 6}},
	"box":  {{"inhale", 4}, {"hold", 4}, {"exhale", 4}, {"hold", 4}},
	"478":  {{"inhale", 4}, {"hold", 7}, {"exhale", 8}},
}

// pacerMaxSession bounds a single pacer connection.
const pacerMaxSession = 30 * time.Minute

// BreathingPacer streams breathing phase frames over WebSocket so the
// frontend animation and the audio cues stay on one clock. The pacer runs
// independently of the profile model; the session is only recorded when the
// client POSTs its completion.
// Authentication uses the session token (Authorization header or `token`
// query parameter for browser WebSocket clients).
func BreathingPacer(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
	}

	if _, ok, err := services.ValidateSession(token); err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	pattern := r.URL.Query().Get("pattern")
	phases, ok := breathPatterns[pattern]
	if !ok {
		phases = breathPatterns["calm"]
	}

	conn, err := pacerUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	done := make(chan struct{})

	// Reader goroutine: drain control messages and detect disconnect.
	go func() {
		defer close(done)
		conn.SetReadLimit(4 * 1024)
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		conn.SetPongHandler(func(appData string) error {
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		}
	}()

	deadline := time.NewTimer(pacerMaxSession)
	defer deadline.Stop()

	cycle := 1
	for {
		for _, phase := range phases {
			frame := PacerFrame{
				Type:    "phase",
				Phase:   phase.Name,
				Seconds: phase.Seconds,
				Cycle:   cycle,
			}
			if err := conn.WriteJSON(frame); err != nil {
				return
			}

			select {
			case <-time.After(time.Duration(phase.Seconds) * time.Second):
			case <-done:
				return
			case <-deadline.C:
				return
			}
		}
		cycle++
	}
}
