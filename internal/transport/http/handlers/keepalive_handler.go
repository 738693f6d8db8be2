package handlers

import (
	"net/http"

	"github.com/ivankudzin/guildbot/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/guildbot/internal/transport/http/errors"
)

const KeepAliveBody = "Discord bot is running"

type PendingCounter interface {
	Len() int
}

type KeepAliveHandler struct {
	pending PendingCounter
}

func NewKeepAliveHandler(pending PendingCounter) *KeepAliveHandler {
	return &KeepAliveHandler{pending: pending}
}

// Root answers the hosting platform's liveness probe.
func (h *KeepAliveHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(KeepAliveBody))
}

func (h *KeepAliveHandler) Health(w http.ResponseWriter, _ *http.Request) {
	resp := dto.HealthResponse{OK: true}
	if h.pending != nil {
		resp.PendingAssignments = h.pending.Len()
	}
	httperrors.Write(w, http.StatusOK, resp)
}
