package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/http/response"
	"github.com/yungbote/lovepattern-backend/internal/platform/apierr"
	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

var errNoSession = errors.New("no session on request")

// mapError translates service and domain errors into the API envelope's
// status and code.
func mapError(err error) *apierr.Error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	var ve *pattern.ValidationError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return apierr.New(http.StatusNotFound, apierr.CodeSessionNotFound, err)
	case errors.Is(err, services.ErrSessionConflict):
		return apierr.New(http.StatusConflict, apierr.CodeSessionConflict, err)
	case errors.Is(err, pattern.ErrInvalidTransition):
		return apierr.New(http.StatusConflict, apierr.CodeInvalidTransition, err)
	case errors.As(err, &ve):
		return apierr.New(http.StatusUnprocessableEntity, apierr.CodeValidationFailed, err)
	case errors.Is(err, pattern.ErrProductNotFound):
		return apierr.New(http.StatusNotFound, apierr.CodeProductNotFound, err)
	case errors.Is(err, pattern.ErrIssueNotFound):
		return apierr.New(http.StatusUnprocessableEntity, apierr.CodeIssueNotFound, err)
	case errors.Is(err, services.ErrInvalidPhoto):
		return apierr.New(http.StatusBadRequest, apierr.CodeInvalidPhoto, err)
	case errors.Is(err, pattern.ErrNoReport):
		return apierr.New(http.StatusNotFound, apierr.CodeReportNotFound, err)
	}
	return apierr.New(http.StatusInternalServerError, apierr.CodeInternal, err)
}

func respondErr(c *gin.Context, err error) {
	response.RespondAPIError(c, mapError(err))
}

func badRequest(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
}

// sessionID is set by the session auth middleware; its absence means the
// route was mounted without it.
func sessionID(c *gin.Context) (string, bool) {
	id := ctxutil.SessionID(c.Request.Context())
	if id == "" {
		response.RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, errNoSession)
		return "", false
	}
	return id, true
}

func respondSession(c *gin.Context, s *services.Session) {
	response.RespondOK(c, gin.H{"session": services.BuildSessionView(s)})
}
