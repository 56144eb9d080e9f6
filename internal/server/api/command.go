package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/control"
)

// CommandHandler sends an arbitrary command to the configured endpoint,
// bypassing gesture classification and the debounce gate.
type CommandHandler struct {
	dispatcher *control.Dispatcher
}

// NewCommandHandler creates a new CommandHandler with the given dispatcher.
func NewCommandHandler(d *control.Dispatcher) *CommandHandler {
	return &CommandHandler{dispatcher: d}
}

type commandRequest struct {
	Command string `json:"command"`
}

type commandResponse struct {
	Command string `json:"command"`
	Status  string `json:"status"`
}

// ServeHTTP handles POST /api/command.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "Command is required")
		return
	}

	if err := h.dispatcher.SendCommand(r.Context(), req.Command); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, commandResponse{Command: req.Command, Status: "sent"})
}
