package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/http/response"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/export"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/render"
	"github.com/yungbote/lovepattern-backend/internal/platform/apierr"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

type ReportExporter interface {
	Export(ctx context.Context, req export.Request) (*export.Artifact, error)
}

type ReportHandler struct {
	log      *logger.Logger
	sessions services.SessionService
	exporter ReportExporter
}

func NewReportHandler(log *logger.Logger, sessions services.SessionService, exporter ReportExporter) *ReportHandler {
	return &ReportHandler{log: log.With("handler", "ReportHandler"), sessions: sessions, exporter: exporter}
}

// currentReport loads the session and its report, writing the error response
// itself when either is missing.
func (h *ReportHandler) currentReport(c *gin.Context) (*services.Session, bool) {
	id, ok := sessionID(c)
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return nil, false
	}
	if s.Report == nil {
		respondErr(c, pattern.ErrNoReport)
		return nil, false
	}
	return s, true
}

// POST /api/session/report/view
func (h *ReportHandler) View(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	s, err := h.sessions.ViewReport(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSession(c, s)
}

// GET /api/session/report
func (h *ReportHandler) Get(c *gin.Context) {
	s, ok := h.currentReport(c)
	if !ok {
		return
	}
	view := services.BuildSessionView(s)
	response.RespondOK(c, gin.H{
		"report":   view.Report,
		"document": render.RenderReport(s.Report),
	})
}

// GET /api/session/report/photo/:report_id
func (h *ReportHandler) Photo(c *gin.Context) {
	s, ok := h.currentReport(c)
	if !ok {
		return
	}
	if c.Param("report_id") != s.Report.ID || !s.ReportPhoto.Present() {
		respondErr(c, fmt.Errorf("%w: no photo for report %q", pattern.ErrNoReport, c.Param("report_id")))
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, s.ReportPhoto.MIMEType, s.ReportPhoto.Data)
}

// GET /api/session/report/export?format=pdf|html
//
// A PDF request may be answered with the printable HTML document; the
// X-Export-Fallback header says so.
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}
	s, ok := h.currentReport(c)
	if !ok {
		return
	}
	req := export.Request{
		Document: render.RenderReport(s.Report),
		Format:   format,
		CacheKey: s.ID + ":" + s.Report.ID,
	}
	if s.ReportPhoto.Present() {
		req.Photo = s.ReportPhoto.Data
		req.PhotoMIME = s.ReportPhoto.MIMEType
	}
	a, err := h.exporter.Export(c.Request.Context(), req)
	if err != nil {
		h.log.Error("report export failed", "session_id", s.ID, "report_id", s.Report.ID, "format", format, "error", err)
		response.RespondAPIError(c, apierr.New(http.StatusInternalServerError, apierr.CodeExportFailed, err))
		return
	}

	disposition := "attachment"
	if a.ContentType != "application/pdf" {
		// the printable document opens the print dialog itself
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, a.FileName))
	c.Header("Cache-Control", "private, no-store")
	if a.Fallback {
		c.Header("X-Export-Fallback", "true")
	}
	c.Data(http.StatusOK, a.ContentType, a.Body)
}
