package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/store"
)

// EnabledSettingKey is the settings key under which the dispatch
// enabled state is persisted across restarts.
const EnabledSettingKey = "dispatch_enabled"

// ControlHandler exposes the global enable/disable switch for command
// dispatch. It gates dispatch only: detection and the preview keep
// running while disabled.
type ControlHandler struct {
	dispatcher *control.Dispatcher
	store      *store.Store
}

// NewControlHandler creates a new ControlHandler. The store may be nil,
// in which case the enabled state is not persisted.
func NewControlHandler(d *control.Dispatcher, s *store.Store) *ControlHandler {
	return &ControlHandler{dispatcher: d, store: s}
}

type controlRequest struct {
	Enabled bool `json:"enabled"`
}

type controlResponse struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// ServeHTTP handles GET and POST requests to /api/control.
func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.set(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// get handles GET /api/control and returns the current control state.
func (h *ControlHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, controlResponse{
		Enabled:  h.dispatcher.IsEnabled(),
		Endpoint: h.dispatcher.URL(),
	})
}

// set handles POST /api/control and flips the dispatch enabled state.
func (h *ControlHandler) set(w http.ResponseWriter, r *http.Request) {
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.dispatcher.SetEnabled(req.Enabled)

	if h.store != nil {
		value := "false"
		if req.Enabled {
			value = "true"
		}
		if err := h.store.Settings().Set(EnabledSettingKey, value); err != nil {
			log.Printf("Failed to persist enabled state: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, controlResponse{
		Enabled:  h.dispatcher.IsEnabled(),
		Endpoint: h.dispatcher.URL(),
	})
}
