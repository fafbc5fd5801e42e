package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/realtime"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

type RealtimeHandler struct {
	log      *logger.Logger
	hub      *realtime.SSEHub
	sessions services.SessionService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, sessions services.SessionService) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub, sessions: sessions}
}

// GET /api/session/events
//
// Every tab of a session gets its own client on the session's channel. The
// first event is a state snapshot so a reconnecting tab catches up.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	client := h.hub.NewSSEClient(id)
	client.Outbound <- realtime.SSEMessage{
		Channel: id,
		Event:   realtime.SSEEventStateChanged,
		Data:    services.BuildSessionView(s),
	}
	h.hub.AddChannel(client, id)
	h.log.Debug("SSE stream open", "session_id", id, "client_id", client.ID.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("SSE stream closed", "session_id", id, "client_id", client.ID.String())
}
