package api

import (
	"net/http"

	"github.com/ayusman/mudra/internal/app"
)

// SnapshotHandler saves the latest annotated frame to disk.
type SnapshotHandler struct {
	app *app.App
}

// NewSnapshotHandler creates a new SnapshotHandler with the given app.
func NewSnapshotHandler(a *app.App) *SnapshotHandler {
	return &SnapshotHandler{app: a}
}

type snapshotResponse struct {
	Path string `json:"path"`
}

// ServeHTTP handles POST /api/snapshot.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path, err := h.app.SaveSnapshot()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snapshotResponse{Path: path})
}
