package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/platform/apierr"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("load: %w", services.ErrSessionNotFound), http.StatusNotFound, "session_not_found"},
		{fmt.Errorf("redis update session s1: %w", services.ErrSessionConflict), http.StatusConflict, "session_conflict"},
		{pattern.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{&pattern.ValidationError{Step: 2, Field: "birth_date", Reason: "required"}, http.StatusUnprocessableEntity, "validation_failed"},
		{pattern.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
		{fmt.Errorf("%w: %q", pattern.ErrIssueNotFound, "x"), http.StatusUnprocessableEntity, "issue_not_found"},
		{fmt.Errorf("%w: empty file", services.ErrInvalidPhoto), http.StatusBadRequest, "invalid_photo"},
		{pattern.ErrNoReport, http.StatusNotFound, "report_not_found"},
		{apierr.New(http.StatusTeapot, "custom", errors.New("x")), http.StatusTeapot, "custom"},
		{context.DeadlineExceeded, http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		got := mapError(tc.err)
		if got.Status != tc.status || got.Code != tc.code {
			t.Fatalf("%v: want=%d/%s got=%d/%s", tc.err, tc.status, tc.code, got.Status, got.Code)
		}
	}
}

func TestHealthCheckReportsDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		ping   func(context.Context) error
		status int
	}{
		{nil, http.StatusOK},
		{func(context.Context) error { return nil }, http.StatusOK},
		{func(context.Context) error { return errors.New("redis down") }, http.StatusServiceUnavailable},
	} {
		r := gin.New()
		r.GET("/healthcheck", NewHealthHandler(tc.ping).HealthCheck)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
		if rec.Code != tc.status {
			t.Fatalf("status: want=%d got=%d", tc.status, rec.Code)
		}
	}
}

func TestSessionIDRequiresMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/raw", func(c *gin.Context) {
		if _, ok := sessionID(c); ok {
			t.Fatalf("no session should be found without the auth middleware")
		}
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/raw", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
}
