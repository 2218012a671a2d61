package api

import (
	"io"
	"net/http"
	"time"

	"linkcfg/pkg/output"
	"linkcfg/pkg/settings"
)

// CraftNameHandler lets the serial bridge feed craft names reported by the
// flight controller into the registry.
type CraftNameHandler struct {
	guard *Guard
	sync  *output.CraftNameSync
	now   func() time.Time
}

// NewCraftNameHandler creates a new CraftNameHandler.
func NewCraftNameHandler(g *Guard, s *output.CraftNameSync) *CraftNameHandler {
	return &CraftNameHandler{guard: g, sync: s, now: time.Now}
}

// PollResponse tells the bridge whether to request the craft name now.
type PollResponse struct {
	Due bool `json:"due"`
}

// HandlePoll: GET /api/output/craft-name/poll.
func (h *CraftNameHandler) HandlePoll(w http.ResponseWriter, r *http.Request) {
	var due bool
	h.guard.Do(func(*settings.Registry) { due = h.sync.PollDue(h.now()) })
	writeResponse(w, r, http.StatusOK, PollResponse{Due: due})
}

// HandleName stores the raw body as craft name: PUT /api/output/craft-name.
func (h *CraftNameHandler) HandleName(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid body")
		return
	}
	h.guard.Do(func(*settings.Registry) { h.sync.HandleName(payload) })
	w.WriteHeader(http.StatusNoContent)
}
