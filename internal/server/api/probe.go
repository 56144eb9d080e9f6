package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/control"
)

// ProbeHandler checks whether the configured command endpoint is
// reachable.
type ProbeHandler struct {
	dispatcher *control.Dispatcher
}

// NewProbeHandler creates a new ProbeHandler with the given dispatcher.
func NewProbeHandler(d *control.Dispatcher) *ProbeHandler {
	return &ProbeHandler{dispatcher: d}
}

type probeResponse struct {
	Reachable bool   `json:"reachable"`
	Endpoint  string `json:"endpoint"`
	Error     string `json:"error,omitempty"`
}

// ServeHTTP handles POST /api/probe. Any HTTP response from the
// endpoint counts as reachable; only transport failures do not.
func (h *ProbeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := probeResponse{Reachable: true, Endpoint: h.dispatcher.URL()}
	if err := h.dispatcher.Probe(r.Context()); err != nil {
		resp.Reachable = false
		resp.Error = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}
