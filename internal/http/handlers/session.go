package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/http/response"
	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

type SessionHandler struct {
	log      *logger.Logger
	sessions services.SessionService
	auth     services.AuthService
}

func NewSessionHandler(log *logger.Logger, sessions services.SessionService, auth services.AuthService) *SessionHandler {
	return &SessionHandler{log: log.With("handler", "SessionHandler"), sessions: sessions, auth: auth}
}

// POST /api/session
func (h *SessionHandler) Create(c *gin.Context) {
	s, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	token, err := h.auth.IssueToken(s.ID)
	if err != nil {
		// Nobody can reach a session without its token.
		_ = h.sessions.End(c.Request.Context(), s.ID)
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session":    services.BuildSessionView(s),
		"token":      token,
		"expires_in": int(h.auth.GetTokenTTL().Seconds()),
	})
}

// GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// DELETE /api/session
func (h *SessionHandler) End(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.End(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/session/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Target string `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.sessions.Navigate(c.Request.Context(), id, services.NavState(req.Target))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// POST /api/session/products/select
func (h *SessionHandler) SelectProduct(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.sessions.SelectProduct(c.Request.Context(), id, req.ProductID)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// POST /api/session/auth/complete
//
// The login is a stub: any provider name is accepted and only the session's
// login flag changes.
func (h *SessionHandler) CompleteAuth(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req struct {
		Provider string `json:"provider"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	s, err := h.sessions.CompleteAuth(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	fields := append(ctxutil.LogFields(c.Request.Context()), "session_id", id)
	if req.Provider != "" {
		fields = append(fields, "provider", req.Provider)
	}
	h.log.Info("auth completed", fields...)
	respondSession(c, s)
}

// POST /api/session/auth/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.Logout(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// POST /api/session/payment/complete
func (h *SessionHandler) CompletePayment(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.CompletePayment(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// POST /api/session/notice/dismiss
func (h *SessionHandler) DismissNotice(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.DismissNotice(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}
