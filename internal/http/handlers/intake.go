package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/http/response"
	"github.com/yungbote/lovepattern-backend/internal/platform/apierr"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

// multipart framing allowance on top of the photo limit
const multipartOverhead = 1 << 20

var errPreviewNotFound = errors.New("photo preview not found")

type IntakeHandler struct {
	log           *logger.Logger
	sessions      services.SessionService
	photoMaxBytes int64
}

func NewIntakeHandler(log *logger.Logger, sessions services.SessionService, photoMaxBytes int64) *IntakeHandler {
	if photoMaxBytes <= 0 {
		photoMaxBytes = services.DefaultPhotoMaxBytes
	}
	return &IntakeHandler{
		log:           log.With("handler", "IntakeHandler"),
		sessions:      sessions,
		photoMaxBytes: photoMaxBytes,
	}
}

// GET /api/session/intake
func (h *IntakeHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"state":  s.State,
		"intake": services.BuildIntakeView(s.Intake),
	})
}

// PATCH /api/session/intake
func (h *IntakeHandler) Patch(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req services.IntakePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			badRequest(c, err)
			return
		}
	}
	s, err := h.sessions.UpdateIntake(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// POST /api/session/intake/photo (multipart field "photo")
func (h *IntakeHandler) UploadPhoto(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.photoMaxBytes+multipartOverhead)
	fh, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondErr(c, fmt.Errorf("%w: larger than %d bytes", services.ErrInvalidPhoto, h.photoMaxBytes))
			return
		}
		badRequest(c, fmt.Errorf("multipart field \"photo\": %w", err))
		return
	}
	if fh.Size > h.photoMaxBytes {
		respondErr(c, fmt.Errorf("%w: larger than %d bytes", services.ErrInvalidPhoto, h.photoMaxBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, h.photoMaxBytes+1))
	if err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.sessions.UploadPhoto(c.Request.Context(), id, raw, fh.Filename)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// GET /api/session/intake/photo/preview/:preview_id
//
// Only the current preview resolves; a replaced photo's URL 404s.
func (h *IntakeHandler) Preview(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	w := s.Intake
	if w.PreviewID == "" || w.PreviewID != c.Param("preview_id") || len(w.Preview) == 0 {
		response.RespondAPIError(c, apierr.New(http.StatusNotFound, apierr.CodeInvalidPhoto, errPreviewNotFound))
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "image/png", w.Preview)
}

// POST /api/session/intake/next
func (h *IntakeHandler) Next(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.IntakeNext(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// POST /api/session/intake/back
func (h *IntakeHandler) Back(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.IntakeBack(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// POST /api/session/intake/submit
//
// Answers 202 once the session is PROCESSING; the outcome arrives over SSE
// or by polling GET /api/session.
func (h *IntakeHandler) Submit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.Submit(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"session": services.BuildSessionView(s)})
}
