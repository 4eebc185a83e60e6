package server

import (
	"encoding/json"
	"net/http"
)

// SettingsPatch is the /admin/config POST body. Absent fields keep their value.
type SettingsPatch struct {
	Speed          *float64 `json:"speed,omitempty"`
	JumpForce      *float64 `json:"jumpForce,omitempty"`
	GravityY       *float64 `json:"gravityY,omitempty"`
	BroadcastEvery *int     `json:"broadcastEvery,omitempty"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Speed != nil {
		s.Tunables.Speed = *p.Speed
	}
	if p.JumpForce != nil {
		s.Tunables.JumpForce = *p.JumpForce
	}
	if p.GravityY != nil {
		s.Tunables.Gravity[1] = *p.GravityY
	}
	if p.BroadcastEvery != nil {
		s.BroadcastEvery = *p.BroadcastEvery
	}
	return s
}

// API serves the HTTP endpoints of a RoomManager.
type API struct {
	Rooms *RoomManager
}

// Routes returns the server's HTTP handler.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", a.HandleWS)
	mux.HandleFunc("/admin/config", a.HandleAdminConfig)
	mux.HandleFunc("/metrics", a.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (a *API) room(r *http.Request) *Room {
	return a.Rooms.GetOrCreateRoom(r.URL.Query().Get("room"))
}

// HandleAdminConfig reads or patches a room's settings.
// GET /admin/config?room=room-1
// POST /admin/config?room=room-1 with a SettingsPatch body; applied at the next tick.
func (a *API) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	room := a.room(r)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, room.Settings())
	case http.MethodPost:
		var patch SettingsPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := room.UpdateSettings(patch); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics reports a room's counters.
// GET /metrics?room=room-1
func (a *API) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	room := a.room(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"room":    room.ID,
		"tick":    room.Tick(),
		"metrics": room.Metrics().Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
